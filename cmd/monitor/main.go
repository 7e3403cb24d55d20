package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/n-ulricksen/c64-emulator/c64"
)

// model is the bubbletea model driving the interactive monitor, grounded on
// hejops-gone/cpu/debugger.go's model{cpu,program,offset,prevPC,error} and
// its single-step Update loop; generalized here from one CPU to a full
// System so a single keypress can step the VIC/CIA/SID chips along with it.
type model struct {
	sys    *c64.System
	prevPC uint16
	err    error
	steps  uint64
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.sys.Cpu.Pc
			m.sys.Step()
			m.steps++
		case "f":
			// run one frame's worth of cycles
			target := m.sys.Cpu.CycleCount + cyclesPerFrame
			for m.sys.Cpu.CycleCount < target {
				m.prevPC = m.sys.Cpu.Pc
				m.sys.Step()
				m.steps++
			}
		}
	}
	return m, nil
}

const cyclesPerFrame = 63 * 312

func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.sys.Bus.Read(start + i)
		if start+i == m.sys.Cpu.Pc {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}
	lines := []string{header}
	base := m.sys.Cpu.Pc &^ 0x0F
	for i := -2; i <= 2; i++ {
		lines = append(lines, m.renderPage(uint16(int(base)+i*16)))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	c := m.sys.Cpu
	flagBits := []struct {
		name string
		set  bool
	}{
		{"N", c.Status&byte(c64.FlagN) != 0},
		{"V", c.Status&byte(c64.FlagV) != 0},
		{"-", c.Status&byte(c64.FlagX) != 0},
		{"B", c.Status&byte(c64.FlagB) != 0},
		{"D", c.Status&byte(c64.FlagD) != 0},
		{"I", c.Status&byte(c64.FlagI) != 0},
		{"Z", c.Status&byte(c64.FlagZ) != 0},
		{"C", c.Status&byte(c64.FlagC) != 0},
	}
	var header, flags string
	for _, f := range flagBits {
		header += f.name + " "
		if f.set {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
steps: %d
  PC: %04x (%04x)
  SP: %02x
   A: %02x
   X: %02x
   Y: %02x
raster: %d
%s
%s`,
		m.steps, c.Pc, m.prevPC, c.Sp, c.A, c.X, c.Y,
		m.sys.Vic.RasterY(), header, flags)
}

func (m model) View() string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		"voice0: "+spew.Sdump(m.sys.Sid.VoiceState(0)),
		"space/j: step   f: run one frame   q: quit",
	)
	if m.err != nil {
		body += "\nerror: " + m.err.Error()
	}
	return body
}

func main() {
	var sampleRate int
	var loadSnapshot string

	rootCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Interactive bubbletea debugger for the C64 system",
		RunE: func(cmd *cobra.Command, args []string) error {
			sys := c64.NewSystem(sampleRate, c64.EmulationFull)
			sys.Reset()

			if loadSnapshot != "" {
				f, err := os.Open(loadSnapshot)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := sys.ReadSnapshot(f); err != nil {
					return fmt.Errorf("loading snapshot: %w", err)
				}
			}

			p := tea.NewProgram(model{sys: sys})
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(model); ok && fm.err != nil {
				fmt.Fprintln(os.Stderr, "monitor exited with error:", fm.err)
			}
			return nil
		},
	}
	rootCmd.Flags().IntVar(&sampleRate, "sample-rate", 44100, "SID audio sample rate")
	rootCmd.Flags().StringVar(&loadSnapshot, "load", "", "Load a snapshot before starting")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
