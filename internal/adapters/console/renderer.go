package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
	"github.com/TuliEscobar/prueba-trakii/internal/ports"
)

const gaugeWidth = 20

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Renderer prints a one-line gauge and a history sparkline per snapshot
// This implements the ports.Renderer interface
type Renderer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewRenderer writes frames to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes one frame
func (r *Renderer) Render(ctx context.Context, snap ports.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %3d%% %-8s %s  %s\n",
		Gauge(snap.Level, gaugeWidth),
		snap.Level,
		strings.ToUpper(snap.Band.String()),
		snap.DeviceStatus,
		bandMessage(snap.Band),
	)
	fmt.Fprintf(&b, "history %s\n", Sparkline(snap.History))
	if snap.Address != nil {
		fmt.Fprintf(&b, "address %s\n", strings.ReplaceAll(snap.Address.Formatted, "\n", ", "))
	}
	for _, notice := range snap.Notices {
		fmt.Fprintf(&b, "! %s\n", notice)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Gauge draws level as a bar of width cells
func Gauge(level, width int) string {
	filled := level * width / domain.MaxLevel
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

// Sparkline draws the history newest first; critical entries are followed by '!'
// and warnings by '~' so the band survives terminals without colour
func Sparkline(history []domain.ClassifiedLevel) string {
	var b strings.Builder
	for _, entry := range history {
		idx := (entry.Level - 1) * len(sparkRunes) / domain.MaxLevel
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
		switch entry.Band {
		case domain.BandCritical:
			b.WriteByte('!')
		case domain.BandWarning:
			b.WriteByte('~')
		}
	}
	return b.String()
}

func bandMessage(band domain.SeverityBand) string {
	switch band {
	case domain.BandCritical:
		return "CRITICAL! connect the charger now"
	case domain.BandWarning:
		return "low, consider charging soon"
	}
	return "optimal"
}
