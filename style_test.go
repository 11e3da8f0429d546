package ficha

import (
	"errors"
	"testing"
)

func TestStyle_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		style   Style
		wantErr bool
	}{
		{name: "body", style: Style{Family: "Arial", Size: 10}},
		{name: "bold centered", style: Style{Family: "Helvetica", Size: 12, Bold: true, Align: AlignCenter}},
		{name: "minimum size", style: Style{Family: "Times", Size: MinFontSize, Align: AlignRight}},
		{name: "maximum size", style: Style{Family: "Courier", Size: MaxFontSize, Align: AlignLeft}},
		{name: "empty family", style: Style{Family: " ", Size: 10}, wantErr: true},
		{name: "too small", style: Style{Family: "Arial", Size: 3.5}, wantErr: true},
		{name: "too large", style: Style{Family: "Arial", Size: 80}, wantErr: true},
		{name: "justified", style: Style{Family: "Arial", Size: 10, Align: "justify"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.style.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStyle) {
					t.Errorf("Validate() error = %v, want ErrInvalidStyle", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestStyle_FpdfCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		style     Style
		wantFont  string
		wantAlign string
	}{
		{Style{}, "", "L"},
		{Style{Bold: true, Align: AlignLeft}, "B", "L"},
		{Style{Align: AlignCenter}, "", "C"},
		{Style{Bold: true, Align: AlignRight}, "B", "R"},
	}

	for _, tt := range tests {
		if got := tt.style.fontStyle(); got != tt.wantFont {
			t.Errorf("%+v fontStyle() = %q, want %q", tt.style, got, tt.wantFont)
		}
		if got := tt.style.alignCode(); got != tt.wantAlign {
			t.Errorf("%+v alignCode() = %q, want %q", tt.style, got, tt.wantAlign)
		}
	}
}

func TestCoreFamily(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Arial":     "Arial",
		"helvetica": "helvetica",
		"Times":     "Times",
		"Courier":   "Courier",
		"Calibri":   "Arial",
		"":          "Arial",
	}
	for in, want := range tests {
		if got := coreFamily(in); got != want {
			t.Errorf("coreFamily(%q) = %q, want %q", in, got, want)
		}
	}
}
