package domain

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		level int
		want  SeverityBand
	}{
		{level: 1, want: BandCritical},
		{level: 20, want: BandCritical},
		{level: 21, want: BandWarning},
		{level: 50, want: BandWarning},
		{level: 51, want: BandNormal},
		{level: 100, want: BandNormal},
	}

	for _, tt := range tests {
		if got := Classify(tt.level, 50, 20); got != tt.want {
			t.Errorf("Classify(%d, 50, 20) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestClassify_CustomBoundaries(t *testing.T) {
	th := Thresholds{Warning: 40, Critical: 10}

	if got := th.Classify(10); got != BandCritical {
		t.Errorf("Classify(10) = %v, want critical", got)
	}
	if got := th.Classify(41); got != BandNormal {
		t.Errorf("Classify(41) = %v, want normal", got)
	}
	if got := th.Classify(-3); got != BandCritical {
		t.Errorf("Classify(-3) = %v, want critical", got)
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		th      Thresholds
		wantErr bool
	}{
		{name: "defaults", th: DefaultThresholds()},
		{name: "tight", th: Thresholds{Warning: 2, Critical: 1}},
		{name: "equal", th: Thresholds{Warning: 20, Critical: 20}, wantErr: true},
		{name: "inverted", th: Thresholds{Warning: 10, Critical: 30}, wantErr: true},
		{name: "critical below range", th: Thresholds{Warning: 50, Critical: 0}, wantErr: true},
		{name: "warning above range", th: Thresholds{Warning: 101, Critical: 20}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.th.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidThresholds) {
				t.Errorf("expected ErrInvalidThresholds, got %v", err)
			}
		})
	}
}

func TestSeverityBand_Text(t *testing.T) {
	for _, band := range []SeverityBand{BandNormal, BandWarning, BandCritical} {
		text, err := band.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", band, err)
		}
		var decoded SeverityBand
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if decoded != band {
			t.Errorf("decoded %v, want %v", decoded, band)
		}
	}

	if _, err := SeverityBand(7).MarshalText(); err == nil {
		t.Error("expected error for unknown band")
	}
	var b SeverityBand
	if err := b.UnmarshalText([]byte("amber")); err == nil {
		t.Error("expected error for unknown band name")
	}
}
