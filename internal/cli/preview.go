package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

const (
	// pxPerCol and pxPerRow convert layout units to terminal cells.
	pxPerCol = 8.0
	pxPerRow = 16.0

	// resizeDelay debounces terminal resizes before re-laying out.
	resizeDelay = 100 * time.Millisecond

	// chromeRows is the number of rows used by the header and footer.
	chromeRows = 5
)

// previewCommand creates the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		noCache bool
		from    string
	)

	cmd := &cobra.Command{
		Use:   "preview [gallery.toml]",
		Short: "Preview a gallery layout in the terminal",
		Long: `Preview a gallery layout in the terminal.

The terminal acts as the viewport: one cell is 8 units wide and 16 units
tall, so a 160-column terminal lays the gallery out as if the viewport were
1280 wide. Resizing the terminal re-lays out the gallery.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], from, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching of probed image sizes")
	cmd.Flags().StringVar(&from, "from", "", "entry direction: top, bottom, left, right, center, none")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input, from string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Loading gallery...")
	spinner.Start()
	res, err := runner.Load(ctx, pipeline.Options{Manifest: input, Logger: c.Logger})
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()
	prog.done("loaded gallery", "items", len(res.Items))

	anim := c.config.Animation
	if from != "" {
		if anim.From, err = masonry.ParseOrigin(from); err != nil {
			return err
		}
	}

	model := newPreviewModel(masonry.NewHost(res.Items, c.config.Layout.Breakpoints), anim)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	if m, ok := final.(previewModel); ok && m.opened != nil {
		printSuccess("Selected %s", m.opened.ID)
		if m.opened.URL != "" {
			printNextStep("Open", StyleLink.Render(m.opened.URL))
		}
	}
	return nil
}

// =============================================================================
// previewModel - bubbletea host for the layout engine
// =============================================================================

// relayoutMsg fires after a resize settles. Stale sequence numbers are
// ignored.
type relayoutMsg struct{ seq int }

type previewModel struct {
	host *masonry.Host
	anim masonry.AnimationOptions

	width, height int
	seq           int

	layout      *masonry.Layout
	transitions []masonry.Transition
	cursor      int
	offset      int
	opened      *masonry.Placed
}

func newPreviewModel(host *masonry.Host, anim masonry.AnimationOptions) previewModel {
	return previewModel{host: host, anim: anim}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.seq++
		seq := m.seq
		if m.layout == nil {
			return m.relayout(), nil
		}
		return m, tea.Tick(resizeDelay, func(time.Time) tea.Msg { return relayoutMsg{seq: seq} })

	case relayoutMsg:
		if msg.seq == m.seq {
			return m.relayout(), nil
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l", "down", "j":
			if m.layout != nil && m.cursor < len(m.layout.Items)-1 {
				m.cursor++
			}
		case "enter":
			if p := m.selected(); p != nil {
				m.opened = p
				return m, tea.Quit
			}
		}
		m = m.scrollToCursor()
	}
	return m, nil
}

// relayout measures the terminal and asks the host for a new layout.
func (m previewModel) relayout() previewModel {
	w := float64(m.width) * pxPerCol
	l, changed := m.host.Measure(masonry.Size{Width: w, Height: float64(m.height) * pxPerRow}, w)
	if !changed {
		return m
	}
	m.layout = l
	m.transitions = m.host.Transitions(m.anim)
	if m.cursor >= len(l.Items) {
		m.cursor = max(len(l.Items)-1, 0)
	}
	return m.scrollToCursor()
}

func (m previewModel) selected() *masonry.Placed {
	if m.layout == nil || m.cursor >= len(m.layout.Items) {
		return nil
	}
	p := m.layout.Items[m.cursor]
	return &p
}

// scrollToCursor keeps the selected item inside the visible rows.
func (m previewModel) scrollToCursor() previewModel {
	p := m.selected()
	if p == nil {
		return m
	}
	visible := max(m.height-chromeRows, 1)
	top, bottom := cellSpan(p.Y, p.H, pxPerRow)
	if top < m.offset {
		m.offset = top
	} else if bottom > m.offset+visible {
		m.offset = bottom - visible
	}
	return m
}

func (m previewModel) View() string {
	if m.layout == nil {
		return StyleDim.Render("Measuring terminal...")
	}

	var b strings.Builder
	mode := "moved"
	if len(m.transitions) > 0 && m.transitions[0].Fade {
		mode = "entered from " + string(m.anim.From)
	}
	b.WriteString(StyleTitle.Render("Masonry preview"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d items · %d columns · height %.0f · %s",
		len(m.layout.Items), m.layout.Columns, m.layout.TotalHeight, mode)))
	b.WriteString("\n\n")

	sel := ""
	if p := m.selected(); p != nil {
		sel = p.ID
	}
	lines := rasterize(m.layout, sel, m.width)
	visible := max(m.height-chromeRows, 1)
	end := min(m.offset+visible, len(lines))
	for i := m.offset; i < end; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if p := m.selected(); p != nil {
		b.WriteString(listSelectedStyle.Render(p.ID))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  x=%.0f y=%.0f w=%.0f h=%.0f", p.X, p.Y, p.W, p.H)))
		if p.URL != "" {
			b.WriteString("  " + StyleLink.Render(p.URL))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("←/→ select  ⏎ open  q quit"))
	return b.String()
}

// =============================================================================
// Rasterizer
// =============================================================================

// cellSpan converts a position and extent in layout units to a half-open
// cell range.
func cellSpan(pos, size, unit float64) (int, int) {
	start := int(math.Round(pos / unit))
	end := int(math.Round((pos + size) / unit))
	if end <= start {
		end = start + 1
	}
	return start, end
}

// rasterize draws each placed item as a box on a character grid. The
// selected item gets a heavy border.
func rasterize(l *masonry.Layout, selected string, width int) []string {
	rows := int(math.Ceil(l.TotalHeight / pxPerRow))
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	set := func(r, c int, ch rune) {
		if r >= 0 && r < rows && c >= 0 && c < width {
			grid[r][c] = ch
		}
	}

	for _, p := range l.Items {
		x0, x1 := cellSpan(p.X, p.W, pxPerCol)
		y0, y1 := cellSpan(p.Y, p.H, pxPerRow)
		x1, y1 = x1-1, y1-1

		border := []rune("┌┐└┘─│")
		if p.ID == selected {
			border = []rune("┏┓┗┛━┃")
		}
		for c := x0 + 1; c < x1; c++ {
			set(y0, c, border[4])
			set(y1, c, border[4])
		}
		for r := y0 + 1; r < y1; r++ {
			set(r, x0, border[5])
			set(r, x1, border[5])
		}
		set(y0, x0, border[0])
		set(y0, x1, border[1])
		set(y1, x0, border[2])
		set(y1, x1, border[3])

		label := []rune(p.ID)
		if avail := x1 - x0 - 1; len(label) > avail {
			label = label[:max(avail, 0)]
		}
		labelRow := y0 + 1
		if labelRow >= y1 {
			labelRow = y0
		}
		for i, ch := range label {
			set(labelRow, x0+1+i, ch)
		}
	}

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)
