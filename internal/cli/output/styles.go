package output

import "github.com/charmbracelet/lipgloss"

// Status values understood by StatusLine.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusPending = "pending"
)

// Styles holds the lipgloss styles used by terminal output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// ObjectPath renders model object names such as Sales[Amount]
	ObjectPath lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
	StatusPending lipgloss.Style
}

// NewStyles returns the colored style set, or plain styles when color is false.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1:       plain,
			Header2:       plain,
			Muted:         plain,
			Bold:          plain,
			Success:       plain,
			Warning:       plain,
			Error:         plain,
			Info:          plain,
			ObjectPath:    plain,
			StatusSuccess: plain.SetString("[ok]"),
			StatusFailed:  plain.SetString("[fail]"),
			StatusSkipped: plain.SetString("[skip]"),
			StatusPending: plain.SetString("[..]"),
		}
	}

	green := lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	red := lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	yellow := lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	blue := lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	gray := lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(blue).Underline(true),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(blue),
		Muted:         lipgloss.NewStyle().Foreground(gray),
		Bold:          lipgloss.NewStyle().Bold(true),
		Success:       lipgloss.NewStyle().Foreground(green),
		Warning:       lipgloss.NewStyle().Foreground(yellow),
		Error:         lipgloss.NewStyle().Foreground(red).Bold(true),
		Info:          lipgloss.NewStyle().Foreground(blue),
		ObjectPath:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#c4b5fd"}),
		StatusSuccess: lipgloss.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(red).SetString("✗"),
		StatusSkipped: lipgloss.NewStyle().Foreground(gray).SetString("○"),
		StatusPending: lipgloss.NewStyle().Foreground(yellow).SetString("…"),
	}
}
