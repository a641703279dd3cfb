package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"goboy/mem"
)

// model backs the interactive single-step inspector, generalized from the
// teacher's 6502 TUI (cpu/debugger.go) to SM83 registers and flags. It is
// the idiomatic-Go counterpart to the Python original's STEP-mode trace
// loop (original_source/Main.py), which printed each decoded instruction
// and blocked on a bare input() call; this replaces that with a real
// bubbletea program.
type model struct {
	cpu    *Cpu
	offset uint16
	prevPC uint16
	err    error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.cpu.PC
			if _, err := m.cpu.Step(); err != nil {
				m.err = err
				return m, nil
			}
		}
	}
	return m, nil
}

// renderPage renders a single 16-byte page as a line, highlighting the
// current PC.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.cpu.Bus.Read(start + i)
		if start+i == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, f := range []bool{m.cpu.Z(), m.cpu.N(), m.cpu.H(), m.cpu.C()} {
		if f {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
SP: %04x
 A: %02x   F: %02x
 B: %02x   C: %02x
 D: %02x   E: %02x
 H: %02x   L: %02x
 cycles: %d  state: %s
Z N H C
`,
		m.cpu.PC, m.prevPC,
		m.cpu.SP,
		m.cpu.A, m.cpu.Flags(),
		m.cpu.B, m.cpu.C,
		m.cpu.D, m.cpu.E,
		m.cpu.H, m.cpu.L,
		m.cpu.Cycles, m.cpu.State,
	) + flags
}

func (m model) pageTable() string {
	header := "page | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}
	lines := []string{header}
	base := m.cpu.PC &^ 0xF
	for i := -2; i <= 2; i++ {
		lines = append(lines, m.renderPage(uint16(int(base)+i*16)))
	}
	return strings.Join(lines, "\n")
}

func (m model) View() string {
	var errLine string
	if m.err != nil {
		errLine = m.err.Error()
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		errLine,
		spew.Sdump(primaryTable[m.cpu.Bus.Read(m.cpu.PC)]),
	)
}

// Debug loads rom at 0x0000 into bus and starts an interactive single-step
// TUI over it. Pressing space or j steps one instruction; q quits.
func Debug(bus *mem.Bus, rom []byte) error {
	bus.LoadROM(rom)
	c := New(bus)
	m, err := tea.NewProgram(model{cpu: c, offset: c.PC}).Run()
	if err != nil {
		return err
	}
	if x, ok := m.(model); ok && x.err != nil {
		fmt.Println("stopped:", x.err)
	}
	return nil
}
