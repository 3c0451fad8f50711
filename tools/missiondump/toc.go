package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
	"github.com/tommy-xr/shock2quest-sub001/utils"
)

func tocCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toc <file>",
		Short: "List the chunks of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := chunk.OpenPath(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d chunks, %d bytes\n", f.Name(), f.Len(), f.Size())
			for _, name := range f.Names() {
				c, _ := f.Get(name)
				h, err := f.Header(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %-12s offset 0x%.8x size %8d version %d.%d\n",
					name, c.Offset, c.Length, h.VersionMajor, h.VersionMinor)
			}
			return nil
		},
	}
}

func chunkCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "chunk <file> <name>",
		Short: "Print the payload of one chunk with unprintable bytes escaped",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := chunk.OpenPath(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			data, err := f.ReadAll(args[1])
			if err != nil {
				return err
			}
			if limit > 0 && len(data) > limit {
				data = data[:limit]
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.DumpToOneLineString(data))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 256, "Bytes to print, 0 for all")
	return cmd
}
