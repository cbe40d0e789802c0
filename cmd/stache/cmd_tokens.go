package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/stache/template/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var includeHidden bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the leaf tokens of a template file",
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

			node.Walk(func(n *parser.Node) bool {
				if n.Hidden && !includeHidden {
					return true
				}
				if len(n.Children) > 0 {
					return true
				}
				fmt.Printf("%s-%s\t%s\t%q\n", n.Span.Start, n.Span.End, n.Kind, n.Literal)
				return true
			})

			sc := p.Scanner()
			fmt.Printf("open elements: %d, open sections: %d\n",
				sc.OpenElementDepth(), sc.OpenSectionDepth())
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "include hidden tokens")

	return cmd
}
