package pack

import "testing"

func twoThemePack() Pack {
	return Pack{
		Author: "Ada",
		Name:   "Sample",
		Rounds: []Round{{
			Name: "Round 1",
			Themes: []Theme{
				{ID: 1, Name: "A", Questions: []Question{{ID: 7}, {}}},
				{ID: 2, Name: "B", Questions: []Question{{}, {ID: 3}}},
			},
		}},
	}
}

func TestNormalizeQuestionIDs(t *testing.T) {
	p := NormalizeQuestionIDs(twoThemePack())
	qs1 := p.Rounds[0].Themes[0].Questions
	qs2 := p.Rounds[0].Themes[1].Questions
	if qs1[0].ID != 7 || qs2[1].ID != 3 {
		t.Fatalf("existing ids must be kept: %d, %d", qs1[0].ID, qs2[1].ID)
	}
	// Fresh ids continue after the highest existing one, in order.
	if qs1[1].ID != 8 || qs2[0].ID != 9 {
		t.Fatalf("assigned ids = %d, %d, want 8, 9", qs1[1].ID, qs2[0].ID)
	}
}

func TestNextQuestionID(t *testing.T) {
	if got := NextQuestionID(twoThemePack()); got != 8 {
		t.Fatalf("NextQuestionID = %d, want 8", got)
	}
	if got := NextQuestionID(Pack{}); got != 1 {
		t.Fatalf("NextQuestionID(empty) = %d, want 1", got)
	}
}

func TestIsContentEmpty(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"", true},
		{"<p><br></p>", true},
		{"<p>&nbsp;</p>", true},
		{"<p>   </p>", true},
		{"<p>text</p>", false},
		{`<p><img src="x"></p>`, false},
		{`<video src="x"></video>`, false},
	}
	for _, tc := range cases {
		if got := IsContentEmpty(tc.content); got != tc.want {
			t.Errorf("IsContentEmpty(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func TestDownloadFileName(t *testing.T) {
	if got := DownloadFileName("My Quiz  Pack"); got != "my-quiz-pack" {
		t.Fatalf("DownloadFileName = %q", got)
	}
	if got := DownloadFileName(""); got != "pack" {
		t.Fatalf("DownloadFileName(empty) = %q", got)
	}
}
