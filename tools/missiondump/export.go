package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tommy-xr/shock2quest-sub001/entity"
	"github.com/tommy-xr/shock2quest-sub001/utils"
)

type exportLink struct {
	Relation string      `yaml:"relation"`
	Dest     int32       `yaml:"dest"`
	Data     interface{} `yaml:"data,omitempty"`
}

type exportEntity struct {
	ID         entity.TemplateID      `yaml:"id"`
	Name       string                 `yaml:"name"`
	Labelled   bool                   `yaml:"labelled,omitempty"`
	Ancestors  []entity.TemplateID    `yaml:"ancestors,flow"`
	Properties map[string]interface{} `yaml:"properties,omitempty"`
	Links      []exportLink           `yaml:"links,omitempty"`
}

func exportWorld(w *entity.World, concreteOnly bool) []exportEntity {
	var labels utils.Labels
	ids := w.IDs()
	if concreteOnly {
		ids = w.Concrete()
	}
	res := make([]exportEntity, 0, len(ids))
	for _, id := range ids {
		e, _ := w.Get(id)
		ee := exportEntity{
			ID:         id,
			Ancestors:  e.Ancestors,
			Properties: make(map[string]interface{}, len(e.Properties)),
		}
		if name, ok := w.NameOf(id); ok {
			ee.Name = name
		} else {
			ee.Name = labels.Label(int32(id))
			ee.Labelled = true
		}
		for kind, v := range e.Properties {
			ee.Properties[kind.String()] = v
		}
		for _, l := range e.Links {
			ee.Links = append(ee.Links, exportLink{Relation: l.Relation, Dest: l.Dest, Data: l.Data})
		}
		res = append(res, ee)
	}
	return res
}

func exportCmd(flags *loadFlags) *cobra.Command {
	var out string
	var concrete bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every resolved template as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.load()
			if err != nil {
				return err
			}
			defer m.Close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrapf(err, "create %q", out)
				}
				defer f.Close()
				w = f
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(exportWorld(m.World, concrete)); err != nil {
				return errors.Wrapf(err, "encode yaml")
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file, stdout when empty")
	cmd.Flags().BoolVar(&concrete, "concrete", false, "Only export concrete objects")
	return cmd
}
