package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	casm "github.com/branched-services/go-casm"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// loadClass reads and decodes the class at path.
func loadClass(path string) (casm.RunnableCompiledClass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return casm.RunnableCompiledClass{}, err
	}
	variant := casm.VariantV1
	if legacy {
		variant = casm.VariantV0
	}
	class, err := casm.NewRunnableCompiledClass(casm.ContractClass{Variant: variant, Raw: data})
	if err != nil {
		return casm.RunnableCompiledClass{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("Loaded class", "path", path, "variant", class.Variant(), "size", len(data))
	return class, nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <class.json>",
		Short: "Print a class summary and its entry points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := loadClass(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Variant:          %s\n", class.Variant())
			if n, err := class.BytecodeLength(); err == nil {
				fmt.Fprintf(out, "Bytecode length:  %d\n", n)
			}
			if selector, ok := class.ConstructorSelector(); ok {
				fmt.Fprintf(out, "Constructor:      %s\n", selector)
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Type", "Selector", "Offset", "Builtins"})
			if v1, ok := class.V1(); ok {
				segments, err := json.Marshal(v1.BytecodeSegmentLengths())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Compiler version: %s\n", v1.CompilerVersion())
				fmt.Fprintf(out, "Segmentation:     %s\n", segments)
				fmt.Fprintf(out, "Hints:            %d\n", v1.HintsLen())

				eps := v1.EntryPoints()
				for _, kind := range casm.EntryPointTypes {
					for _, ep := range eps.Of(kind) {
						names := make([]string, len(ep.Builtins))
						for i, b := range ep.Builtins {
							names[i] = b.String()
						}
						table.Append([]string{kind.String(), ep.Selector.String(), fmt.Sprint(ep.Offset), strings.Join(names, ", ")})
					}
				}
			}
			if v0, ok := class.V0(); ok {
				fmt.Fprintf(out, "Builtins:         %d\n", v0.NBuiltins())

				eps := v0.EntryPoints()
				for _, kind := range casm.EntryPointTypes {
					for _, ep := range eps.Of(kind) {
						table.Append([]string{kind.String(), ep.Selector.String(), fmt.Sprint(ep.Offset), ""})
					}
				}
			}
			table.Render()
			return nil
		},
	}
}

func newEstimateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "estimate <class.json>",
		Short: "Estimate the VM resources of computing the class hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := loadClass(args[0])
			if err != nil {
				return err
			}
			resources, err := class.EstimateCasmHashComputationResources()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resources)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resources)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the estimate as JSON")
	return cmd
}

func newSegmentsCmd() *cobra.Command {
	var pcs []int
	cmd := &cobra.Command{
		Use:   "segments <class.json>",
		Short: "Map visited program counters to the segments they visited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := loadClass(args[0])
			if err != nil {
				return err
			}
			starts, err := class.VisitedSegments(mapset.NewSet(pcs...))
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(starts)
		},
	}
	cmd.Flags().IntSliceVar(&pcs, "pcs", nil, "Visited program counters, e.g. 0,1,255")
	return cmd
}

func newRoundtripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <class.json>",
		Short: "Check that a class survives an encode/decode cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := loadClass(args[0])
			if err != nil {
				return err
			}

			var equal bool
			switch class.Variant() {
			case casm.VariantV0:
				v0, _ := class.V0()
				encoded, err := v0.MarshalJSON()
				if err != nil {
					return err
				}
				decoded, err := casm.NewCompiledClassV0(encoded)
				if err != nil {
					return err
				}
				equal = v0.Equal(decoded)
			default:
				v1, _ := class.V1()
				encoded, err := v1.ToCASM()
				if err != nil {
					return err
				}
				decoded, err := casm.NewCompiledClassV1(encoded)
				if err != nil {
					return err
				}
				equal = v1.Equal(decoded)
			}

			if !equal {
				return fmt.Errorf("%s: class changed after an encode/decode cycle", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newResourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resource <class.json>",
		Short: "Print the resource calls into the class are billed in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minVersion, err := casm.ParseCompilerVersion(minSierraVersion)
			if err != nil {
				return err
			}
			mode, err := casm.ParseGasMode(gasMode)
			if err != nil {
				return err
			}
			class, err := loadClass(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), class.TrackedResource(minVersion, mode))
			return nil
		},
	}
}
