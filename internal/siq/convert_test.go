package siq

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/packsmith/packsmith/internal/pack"
)

/* ---------------- In-memory fake satisfying siq.Source ---------------- */

type fakeSource struct {
	xml        string
	contentErr error
	media      map[string]string // "<type>/<file>" -> data URI
	mediaCalls []string
}

func (f *fakeSource) LoadContentXML(ctx context.Context) (string, error) {
	if f.contentErr != nil {
		return "", f.contentErr
	}
	return f.xml, nil
}

func (f *fakeSource) LoadMedia(ctx context.Context, mediaType, fileName string) (string, error) {
	f.mediaCalls = append(f.mediaCalls, mediaType+"/"+fileName)
	return f.media[mediaType+"/"+fileName], nil
}

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<package name="History Night">
  <info><authors><author>Ada</author></authors></info>
  <rounds>
    <round name="Opening">
      <themes>
        <theme name="Ancient Rome">
          <info><comments>emperors and aqueducts</comments></info>
          <questions>
            <question type="normal" price="300">
              <params>
                <param name="question">
                  <item>Who crossed the Rubicon?</item>
                </param>
                <param name="answer">
                  <item>He came, he saw</item>
                </param>
              </params>
              <right><answer>Caesar</answer><answer>Gaius Julius</answer></right>
              <info><comments>accept either form</comments></info>
            </question>
            <question type="SECRET" price="500">
              <params>
                <param name="question">
                  <param>
                    <item type="image">forum.jpg</item>
                  </param>
                  <item>Name this place</item>
                </param>
                <param name="price" type="numberSet">
                  <numberSet minimum="100" maximum="500"/>
                </param>
              </params>
              <right><answer>The Forum</answer></right>
            </question>
          </questions>
        </theme>
        <theme name="Greece">
          <questions>
            <question price="abc">
              <params>
                <param name="question">
                  <item type="audio">hymn.mp3</item>
                </param>
              </params>
            </question>
          </questions>
        </theme>
      </themes>
    </round>
    <round>
      <themes>
        <theme>
          <questions>
            <question type="empty"/>
          </questions>
        </theme>
      </themes>
    </round>
  </rounds>
</package>`

func TestConvertBuildsPack(t *testing.T) {
	src := &fakeSource{
		xml: sampleXML,
		media: map[string]string{
			"image/forum.jpg": "data:image/jpeg;base64,Zm9ydW0=",
		},
	}
	p, err := Convert(context.Background(), src)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if p.Author != "Ada" || p.Name != "History Night" {
		t.Fatalf("pack header = %q/%q", p.Author, p.Name)
	}
	if len(p.Rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(p.Rounds))
	}
	if p.Rounds[0].Name != "Opening" || p.Rounds[1].Name != "Round" {
		t.Fatalf("round names = %q, %q", p.Rounds[0].Name, p.Rounds[1].Name)
	}

	themes := p.Rounds[0].Themes
	if len(themes) != 2 {
		t.Fatalf("themes in round 1 = %d, want 2", len(themes))
	}
	if themes[0].ID != 1 || themes[1].ID != 2 || p.Rounds[1].Themes[0].ID != 3 {
		t.Fatalf("theme ids = %d, %d, %d", themes[0].ID, themes[1].ID, p.Rounds[1].Themes[0].ID)
	}
	if themes[0].Description != "emperors and aqueducts" {
		t.Fatalf("description = %q", themes[0].Description)
	}
	if themes[1].Description != "" {
		t.Fatalf("theme without comments should have empty description, got %q", themes[1].Description)
	}
	if p.Rounds[1].Themes[0].Name != "Untitled Theme" {
		t.Fatalf("default theme name = %q", p.Rounds[1].Themes[0].Name)
	}
	if themes[0].Ordered {
		t.Fatal("imported themes must be unordered")
	}

	q1 := themes[0].Questions[0]
	if q1.ID != 1 || q1.Type != pack.QuestionNormal {
		t.Fatalf("q1 id/type = %d/%s", q1.ID, q1.Type)
	}
	wantPrice := pack.Price{Text: "300", Correct: 300, Incorrect: -300, RandomRange: "null"}
	if q1.Price != wantPrice {
		t.Fatalf("q1 price = %+v", q1.Price)
	}
	// Primary content first, then the comments rule.
	if len(q1.Rules) != 2 {
		t.Fatalf("q1 rules = %d, want 2", len(q1.Rules))
	}
	if q1.Rules[0].Content != "Who crossed the Rubicon?" || q1.Rules[1].Content != "accept either form" {
		t.Fatalf("q1 rule contents = %q, %q", q1.Rules[0].Content, q1.Rules[1].Content)
	}
	if q1.Rules[0].Duration != 15 {
		t.Fatalf("rule duration = %d", q1.Rules[0].Duration)
	}
	// Answer param content, then each right/answer in document order.
	wantAfter := []string{"He came, he saw", "Caesar", "Gaius Julius"}
	var gotAfter []string
	for _, rule := range q1.AfterRound {
		gotAfter = append(gotAfter, rule.Content)
	}
	if !reflect.DeepEqual(gotAfter, wantAfter) {
		t.Fatalf("after_round = %v, want %v", gotAfter, wantAfter)
	}

	q2 := themes[0].Questions[1]
	if q2.ID != 2 || q2.Type != pack.QuestionSecret {
		t.Fatalf("q2 id/type = %d/%s", q2.ID, q2.Type)
	}
	if q2.Price.RandomRange != "100-500" {
		t.Fatalf("q2 random_range = %q", q2.Price.RandomRange)
	}
	// Nested params flatten first: image rule, then the item text.
	if len(q2.Rules) != 2 {
		t.Fatalf("q2 rules = %d, want 2", len(q2.Rules))
	}
	if !strings.Contains(q2.Rules[0].Content, `<img src="data:image/jpeg;base64,Zm9ydW0="`) {
		t.Fatalf("q2 image rule = %q", q2.Rules[0].Content)
	}
	if !strings.Contains(q2.Rules[0].Content, `alt="forum.jpg"`) {
		t.Fatalf("q2 image rule alt = %q", q2.Rules[0].Content)
	}
	if q2.Rules[1].Content != "Name this place" {
		t.Fatalf("q2 second rule = %q", q2.Rules[1].Content)
	}

	// Unresolvable media degrades to the raw reference text.
	q3 := themes[1].Questions[0]
	if q3.ID != 3 {
		t.Fatalf("q3 id = %d", q3.ID)
	}
	if len(q3.Rules) != 1 || q3.Rules[0].Content != "hymn.mp3" {
		t.Fatalf("q3 rules = %+v", q3.Rules)
	}
	// Unparsable price defaults to zero but keeps the raw text.
	if q3.Price.Text != "abc" || q3.Price.Correct != 0 || q3.Price.Incorrect != 0 {
		t.Fatalf("q3 price = %+v", q3.Price)
	}

	q4 := p.Rounds[1].Themes[0].Questions[0]
	if q4.ID != 4 || q4.Type != pack.QuestionEmpty {
		t.Fatalf("q4 id/type = %d/%s", q4.ID, q4.Type)
	}
	if q4.Price.Text != "0" || q4.Price.Correct != 0 {
		t.Fatalf("q4 price = %+v", q4.Price)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	first, err := Convert(context.Background(), &fakeSource{xml: sampleXML})
	if err != nil {
		t.Fatalf("first convert: %v", err)
	}
	second, err := Convert(context.Background(), &fakeSource{xml: sampleXML})
	if err != nil {
		t.Fatalf("second convert: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical archives must convert identically")
	}
}

func TestConvertUniqueIDs(t *testing.T) {
	p, err := Convert(context.Background(), &fakeSource{xml: sampleXML})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	themeIDs := map[int]bool{}
	questionIDs := map[int]bool{}
	for _, r := range p.Rounds {
		for _, th := range r.Themes {
			if th.ID < 1 || themeIDs[th.ID] {
				t.Fatalf("theme id %d invalid or duplicated", th.ID)
			}
			themeIDs[th.ID] = true
			for _, q := range th.Questions {
				if q.ID < 1 || questionIDs[q.ID] {
					t.Fatalf("question id %d invalid or duplicated", q.ID)
				}
				questionIDs[q.ID] = true
			}
		}
	}
}

func TestConvertMediaLookupsSequential(t *testing.T) {
	src := &fakeSource{xml: sampleXML}
	if _, err := Convert(context.Background(), src); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := []string{"image/forum.jpg", "audio/hymn.mp3"}
	if !reflect.DeepEqual(src.mediaCalls, want) {
		t.Fatalf("media calls = %v, want %v", src.mediaCalls, want)
	}
}

func TestConvertStructuralErrors(t *testing.T) {
	cases := []struct {
		name string
		src  *fakeSource
		want error
	}{
		{"content missing", &fakeSource{contentErr: ErrMissingContent}, ErrMissingContent},
		{"malformed xml", &fakeSource{xml: "<package><rounds></package>"}, ErrInvalidXML},
		{"wrong root", &fakeSource{xml: "<quiz/>"}, ErrUnexpectedRoot},
		{"no rounds", &fakeSource{xml: "<package><rounds/></package>"}, ErrNoRounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Convert(context.Background(), tc.src)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestConvertEmptyMediaItemDropped(t *testing.T) {
	xml := `<package><rounds><round><themes><theme><questions>
		<question price="100">
			<params><param name="question"><item type="video"></item></param></params>
		</question>
	</questions></theme></themes></round></rounds></package>`
	p, err := Convert(context.Background(), &fakeSource{xml: xml})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if rules := p.Rounds[0].Themes[0].Questions[0].Rules; len(rules) != 0 {
		t.Fatalf("empty media item should yield no rule, got %+v", rules)
	}
}

func TestConvertAudioVideoWrapping(t *testing.T) {
	xml := `<package><rounds><round><themes><theme><questions>
		<question price="100">
			<params><param name="question">
				<item type="audio">song.ogg</item>
				<item type="video">clip.mp4</item>
			</param></params>
		</question>
	</questions></theme></themes></round></rounds></package>`
	src := &fakeSource{xml: xml, media: map[string]string{
		"audio/song.ogg": "data:audio/ogg;base64,cw==",
		"video/clip.mp4": "data:video/mp4;base64,dg==",
	}}
	p, err := Convert(context.Background(), src)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	rules := p.Rounds[0].Themes[0].Questions[0].Rules
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rules))
	}
	if rules[0].Content != `<audio controls autoplay src="data:audio/ogg;base64,cw=="></audio>` {
		t.Fatalf("audio rule = %q", rules[0].Content)
	}
	if rules[1].Content != `<video controls autoplay style="max-width: 100%;" src="data:video/mp4;base64,dg=="></video>` {
		t.Fatalf("video rule = %q", rules[1].Content)
	}
}

func TestConvertAuthorFallbacks(t *testing.T) {
	xml := `<package><rounds><round/></rounds></package>`
	p, err := Convert(context.Background(), &fakeSource{xml: xml})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if p.Author != "SIQ Import" || p.Name != "Converted pack" {
		t.Fatalf("defaults = %q/%q", p.Author, p.Name)
	}
	if len(p.Rounds) != 1 || len(p.Rounds[0].Themes) != 0 {
		t.Fatalf("round without themes should import empty, got %+v", p.Rounds)
	}
}
