package siq

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// HTTPSource serves an SIQ package from a remote static directory:
// <base>/content.xml plus <base>/Images|Audio|Video/<file>.
type HTTPSource struct {
	base   string
	client *http.Client
}

func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (s *HTTPSource) LoadContentXML(ctx context.Context) (string, error) {
	u := s.base + "/content.xml"
	b, status, err := s.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrContentFetch, u, err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("%w: %s (%d)", ErrContentFetch, u, status)
	}
	return string(b), nil
}

func (s *HTTPSource) LoadMedia(ctx context.Context, mediaType, fileName string) (string, error) {
	u := s.mediaURL(mediaType, fileName)
	b, status, err := s.get(ctx, u)
	if err != nil {
		log.Printf("siq: failed to load media %s: %v", u, err)
		return "", nil
	}
	if status < 200 || status >= 300 {
		log.Printf("siq: could not load media %s (%d)", u, status)
		return "", nil
	}
	return toDataURI(b, guessMIME(fileName, mediaType+"/*")), nil
}

func (s *HTTPSource) mediaURL(mediaType, fileName string) string {
	if folder := mediaFolders[mediaType]; folder != "" {
		return s.base + "/" + folder + "/" + fileName
	}
	return s.base + "/" + fileName
}

func (s *HTTPSource) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return b, resp.StatusCode, nil
}
