// Package main provides the MODL model container CLI.
package main

import (
	"fmt"
	"os"

	"github.com/modl-ml/modl/model"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("MODL model container %s\n", version)
			return
		case "inspect":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: modl inspect <file>")
				os.Exit(1)
			}
			if err := inspect(os.Args[2]); err != nil {
				fmt.Fprintf(os.Stderr, "modl: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("MODL - flat model container for computation graphs")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version           Show version")
	fmt.Println("  inspect <file>    Summarize a model file")
}

func inspect(path string) error {
	f, err := model.OpenFile(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if !f.HasIdentifier() {
		fmt.Println("warning: no MODL identifier, decoding anyway")
	}

	m, err := f.Decode(model.DecodeOptions{})
	if err != nil {
		return err
	}

	fmt.Printf("%s: schema version %d, %d nodes\n", path, m.SchemaVersion, len(m.Graph.Nodes))
	for i, n := range m.Graph.Nodes {
		switch d := n.Data.(type) {
		case *model.Operator:
			fmt.Printf("  %4d  %-12q %s inputs=%v\n", i, n.ID, d.Type, d.Inputs)
		case *model.Constant:
			length := 0
			switch p := d.Data.(type) {
			case model.FloatData:
				length = len(p)
			case model.IntData:
				length = len(p)
			}
			fmt.Printf("  %4d  %-12q constant shape=%v (%d elements)\n", i, n.ID, d.Shape, length)
		case *model.Value:
			fmt.Printf("  %4d  %-12q value\n", i, n.ID)
		default:
			fmt.Printf("  %4d  %-12q (no payload)\n", i, n.ID)
		}
	}

	if err := model.Validate(m); err != nil {
		fmt.Printf("validation: %v\n", err)
	} else {
		fmt.Println("validation: ok")
	}
	return nil
}
