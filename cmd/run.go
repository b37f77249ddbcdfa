package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/cobra"
	"github.com/sqweek/dialog"

	"github.com/virtual8/chip8vm/internal/chip8"
	"github.com/virtual8/chip8vm/internal/config"
	"github.com/virtual8/chip8vm/internal/display"
	"github.com/virtual8/chip8vm/internal/logging"
)

const refreshRate = 60

var runCfg = config.Defaults()

// runCmd runs the chip8vm interpreter against a ROM and waits for the
// window to close.
var runCmd = &cobra.Command{
	Use:   "run [path/to/rom]",
	Short: "run the chip8vm interpreter",
	Args:  cobra.MaximumNArgs(1),
	Run:   runChip8,
}

func init() {
	runCfg.BindFlags(runCmd)
}

func runChip8(cmd *cobra.Command, args []string) {
	romPath := ""
	if len(args) == 1 {
		romPath = args[0]
	} else {
		picked, err := dialog.File().Title("Load CHIP-8 ROM").Load()
		if err != nil {
			fmt.Println("no ROM selected, exiting")
			os.Exit(1)
		}
		romPath = picked
	}
	runCfg.RomPath = romPath

	rom, err := os.ReadFile(runCfg.RomPath)
	if err != nil {
		fmt.Printf("error reading rom: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(false)

	vm := chip8.New(chip8.NewRand(), log, runCfg.Quirks())
	if err := vm.LoadROM(rom); err != nil {
		fmt.Printf("error loading rom: %v\n", err)
		os.Exit(1)
	}

	pixelgl.Run(func() {
		beeper := display.NewBeeper(runCfg.Audio)
		defer beeper.Close()

		win, err := display.NewWindow(runCfg.Display, beeper)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		ticker := time.NewTicker(time.Second / refreshRate)
		defer ticker.Stop()

		for range ticker.C {
			if win.Closed() {
				fmt.Println("window closed, shutting down")
				return
			}
			vm.RunFrame(win, runCfg.Emulation.StepsPerFrame)
		}
	})
}
