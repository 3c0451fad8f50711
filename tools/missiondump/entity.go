package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tommy-xr/shock2quest-sub001/entity"
	"github.com/tommy-xr/shock2quest-sub001/utils"
)

func entityCmd(flags *loadFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "entity <id|name>",
		Short: "Dump a resolved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.load()
			if err != nil {
				return err
			}
			defer m.Close()

			var e *entity.Entity
			var ok bool
			if id, err := strconv.Atoi(args[0]); err == nil {
				e, ok = m.World.Get(entity.TemplateID(id))
			} else {
				e, ok = m.World.ByName(args[0])
			}
			if !ok {
				return errors.Errorf("template %q not found", args[0])
			}

			var labels utils.Labels
			out := cmd.OutOrStdout()
			name, ok := e.Name()
			if !ok {
				name = labels.Label(int32(e.ID))
			}
			fmt.Fprintf(out, "Template %d %q\n", e.ID, name)
			for _, a := range e.Ancestors {
				an, ok := m.World.NameOf(a)
				if !ok {
					an = "~" + labels.Label(int32(a))
				}
				fmt.Fprintf(out, "  inherits %d %s\n", a, an)
			}
			utils.FDump(out, e.Properties, e.Links)
			return nil
		},
	}
}
