package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/stache/format"
	"github.com/dhamidi/stache/template/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeHidden bool
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a template file and dump the resulting tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}

			p := parser.ParseDocument(bytes.NewReader(data), parser.WithFile(filename))
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse template: no content")
			}

			switch outputFormat {
			case "json":
				opts := []format.ASTJSONOption{}
				if includeHidden {
					opts = append(opts, format.WithHidden())
				}
				if includePositions {
					opts = append(opts, format.WithPositions())
				}
				enc := format.NewASTJSONEncoder(os.Stdout, opts...)
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Println()
			case "outline":
				enc := format.NewOutlineEncoder(os.Stdout)
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("encode outline: %w", err)
				}
			case "tree":
				fmt.Println(node.String())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, outline, tree)")
	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "include hidden nodes in output")
	cmd.Flags().BoolVar(&includePositions, "positions", true, "include node positions in output")

	return cmd
}
