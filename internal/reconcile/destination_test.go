package reconcile

import (
	"errors"
	"path/filepath"
	"testing"

	"prismrestore/internal/services"
)

func TestDestinationFromSource(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"/x/originals/2009-11-27/004.JPG", filepath.Join("O", "2009-11-27", "004.JPG")},
		{"2009-11-27/004.JPG", filepath.Join("O", "2009-11-27", "004.JPG")},
		{`C:\photos\holiday\img.png`, filepath.Join("O", "holiday", "img.png")},
		{"/a//b///c.jpg", filepath.Join("O", "b", "c.jpg")},
	}
	for _, tc := range cases {
		got, err := DestinationFromSource("O", tc.source, NormalizeNone)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.source, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.source, got, tc.want)
		}
	}
}

func TestDestinationFromSourceRejectsMalformed(t *testing.T) {
	for _, source := range []string{"004.JPG", "/004.JPG", "", "///", "/x/../004.JPG", "/x/bucket/.."} {
		if _, err := DestinationFromSource("O", source, NormalizeNone); !errors.Is(err, services.ErrMalformedSourcePath) {
			t.Fatalf("%q: expected ErrMalformedSourcePath, got %v", source, err)
		}
	}
}

func TestDestinationFromSourceNFC(t *testing.T) {
	decomposed := "/x/Cafe\u0301/e\u0301te\u0301.jpg"
	got, err := DestinationFromSource("O", decomposed, NormalizeNFC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join("O", "Caf\u00e9", "\u00e9t\u00e9.jpg")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	raw, err := DestinationFromSource("O", decomposed, NormalizeNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw == want {
		t.Fatal("expected NormalizeNone to keep decomposed form")
	}
}

func TestParseNormalization(t *testing.T) {
	if ParseNormalization(" NFC ") != NormalizeNFC {
		t.Fatal("expected nfc")
	}
	if ParseNormalization("none") != NormalizeNone || ParseNormalization("") != NormalizeNone {
		t.Fatal("expected none")
	}
}
