package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tommy-xr/shock2quest-sub001/snapshot"
)

func snapshotCmd(flags *loadFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store and compare resolved worlds",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "save <out>",
		Short: "Resolve the mission and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.load()
			if err != nil {
				return err
			}
			defer m.Close()
			if err := snapshot.Save(args[0], m.Name, m.World); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d templates of %s to %s\n", m.World.Len(), m.Name, args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "diff <old> [new]",
		Short: "Compare a stored snapshot with another one or with the loaded mission",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			var cur *snapshot.Snapshot
			if len(args) == 2 {
				if cur, err = snapshot.Load(args[1]); err != nil {
					return err
				}
			} else {
				m, err := flags.load()
				if err != nil {
					return err
				}
				defer m.Close()
				if cur, err = snapshot.FromWorld(m.Name, m.World); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			changes := snapshot.Diff(old, cur)
			for _, c := range changes {
				switch {
				case c.Type != snapshot.Changed:
					fmt.Fprintf(out, "%-8s %d\n", c.Type, c.ID)
				case c.Links:
					fmt.Fprintf(out, "%-8s %d [%s] links\n", c.Type, c.ID, strings.Join(c.Properties, " "))
				default:
					fmt.Fprintf(out, "%-8s %d [%s]\n", c.Type, c.ID, strings.Join(c.Properties, " "))
				}
			}
			fmt.Fprintf(out, "%d differences between %s and %s\n", len(changes), old.Source, cur.Source)
			return nil
		},
	})
	return cmd
}
