// Command goboy drives the SM83 core against a cartridge image: `run`
// presents a 160x144 window via ebiten, `debug` launches the bubbletea
// single-step inspector instead (spec §6, "Host loop").
package main

import (
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"goboy/cpu"
	"goboy/mem"
	"goboy/rom"
	"goboy/video"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goboy",
		Short: "SM83-family console core: CPU interpreter, bus, and tile background renderer",
	}

	var scale int
	var headless bool

	runCmd := &cobra.Command{
		Use:   "run [rom]",
		Short: "Load a cartridge image and run it in a presentation window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(args[0], scale, headless)
		},
	}
	runCmd.Flags().IntVar(&scale, "scale", 3, "window scale factor")
	runCmd.Flags().BoolVar(&headless, "headless", false, "step the core without opening a window (for smoke-testing a ROM)")

	debugCmd := &cobra.Command{
		Use:   "debug [rom]",
		Short: "Launch the interactive single-step inspector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebug(args[0])
		},
	}

	rootCmd.AddCommand(runCmd, debugCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal("goboy: fatal error", "err", err)
	}
}

func loadCartridge(path string) (*mem.Bus, error) {
	data, err := rom.Load(path)
	if err != nil {
		return nil, err
	}
	bus := mem.NewBus()
	bus.LoadROM(data)
	return bus, nil
}

func runDebug(path string) error {
	data, err := rom.Load(path)
	if err != nil {
		return err
	}
	return cpu.Debug(mem.NewBus(), data)
}

func runGame(path string, scale int, headless bool) error {
	bus, err := loadCartridge(path)
	if err != nil {
		return err
	}
	c := cpu.New(bus)
	v := video.New(bus)

	if headless {
		return stepUntilTerminal(c, v)
	}

	ebiten.SetWindowSize(video.ViewportWidth*scale, video.ViewportHeight*scale)
	ebiten.SetWindowTitle("goboy")
	game := &Game{cpu: c, video: v}
	return ebiten.RunGame(game)
}

// stepUntilTerminal runs the core without a window, for ROM smoke-testing
// and CI (spec §5, "the host stops calling step").
func stepUntilTerminal(c *cpu.Cpu, v *video.Video) error {
	for {
		delta, err := c.Step()
		v.Advance(delta)
		if err != nil {
			log.Info("core stopped", "state", c.State, "pc", c.PC, "cycles", c.Cycles)
			if c.State == cpu.Fatal {
				return err
			}
			return nil
		}
	}
}

// Game adapts the Cpu/Video pair to ebiten's Update/Draw/Layout contract
// (spec §5, "step CPU -> advance Video -> maybe present").
type Game struct {
	cpu   *cpu.Cpu
	video *video.Video
}

func (g *Game) Update() error {
	if g.cpu.State != cpu.Running {
		return nil
	}
	delta, err := g.cpu.Step()
	g.video.Advance(delta)
	if err != nil && g.cpu.State == cpu.Fatal {
		return err
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.video.Present(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return video.ViewportWidth, video.ViewportHeight
}
