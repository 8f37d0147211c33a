package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapview/fetch"
	"mapview/osu"
	"mapview/preview"
)

func main() {
	root := &cobra.Command{
		Use:   "mapview",
		Short: "Browse and preview rhythm-game beatmaps",
	}

	root.AddCommand(newViewCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newFetchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newViewCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "view <beatmap.osu>",
		Short: "Open a playback preview window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args[0], configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <beatmap.osu>",
		Short: "Print beatmap metadata and derived difficulty values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func newFetchCmd() *cobra.Command {
	var configPath, dest string
	cmd := &cobra.Command{
		Use:   "fetch <beatmapset-id>",
		Short: "Download a beatmapset and extract its .osu files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id <= 0 {
				return fmt.Errorf("invalid beatmapset id %q", args[0])
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			dir := dest
			if dir == "" {
				dir = cfg.MapsDir
			}
			files, err := fetch.Beatmapset(id, dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Println(f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml")
	cmd.Flags().StringVar(&dest, "dest", "", "target directory (default: maps_dir from config)")
	return cmd
}

var modeNames = [...]string{"standard", "taiko", "catch", "mania"}

func runInfo(path string) error {
	bm, err := osu.DecodeFile(path)
	if err != nil {
		return err
	}
	md := preview.NewMapData(bm)

	var circles, sliders, spinners, holds int
	for _, obj := range md.Objects {
		switch obj.Kind {
		case preview.KindSlider:
			sliders++
		case preview.KindSpinner:
			spinners++
		case preview.KindHold:
			holds++
		default:
			circles++
		}
	}

	fmt.Printf("%s - %s [%s] by %s\n", md.Artist, md.Title, md.Version, md.Creator)
	fmt.Printf("mode:     %s\n", modeNames[md.Mode])
	fmt.Printf("CS/AR/OD: %.1f / %.1f / %.1f\n", md.CircleSize, md.ApproachRate, md.OverallDifficulty)
	fmt.Printf("preempt:  %.0f ms, radius: %.1f\n", preview.PreemptMs(md.ApproachRate), preview.CircleRadius(md.CircleSize))
	fmt.Printf("objects:  %d (%d circles, %d sliders, %d spinners, %d holds)\n",
		len(md.Objects), circles, sliders, spinners, holds)
	fmt.Printf("length:   %.1f s\n", float64(md.MaxObjectTime)/1000)
	return nil
}
