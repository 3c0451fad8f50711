package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tommy-xr/shock2quest-sub001/config"
	"github.com/tommy-xr/shock2quest-sub001/mission"
)

type loadFlags struct {
	mission  string
	gamesys  string
	encoding string
	strict   bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.mission, "mis", "", "Path to mission file")
	cmd.PersistentFlags().StringVar(&f.gamesys, "gam", "", "Path to gamesys, overrides the mission reference")
	cmd.PersistentFlags().StringVar(&f.encoding, "encoding", "", "Text encoding of strings")
	cmd.PersistentFlags().BoolVar(&f.strict, "strict", false, "Fail on malformed property records")
}

func (f *loadFlags) load() (*mission.Mission, error) {
	if err := config.SetEncoding(f.encoding); err != nil {
		return nil, err
	}
	return mission.Load(f.mission, mission.Options{Gamesys: f.gamesys, Strict: f.strict})
}

func main() {
	var flags loadFlags
	root := &cobra.Command{
		Use:          "missiondump",
		Short:        "Inspect mission and gamesys containers",
		SilenceUsage: true,
	}
	flags.register(root)
	root.AddCommand(tocCmd())
	root.AddCommand(chunkCmd())
	root.AddCommand(entityCmd(&flags))
	root.AddCommand(exportCmd(&flags))
	root.AddCommand(snapshotCmd(&flags))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
