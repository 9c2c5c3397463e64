package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"segd/internal/registry"
)

func newSanityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanity",
		Short: "Check the ONNX runtime and checkpoint files without loading the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}
			report := mgr.SanityCheck()
			report.AvailableVariants = variantNames(cfg.WeightsDir)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Error != "" {
				return fmt.Errorf("sanity check failed")
			}
			return nil
		},
	}
}

// variantNames lists the complete checkpoints under dir; nil when the
// directory cannot be read.
func variantNames(dir string) []string {
	cps, err := registry.LoadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(cps))
	for _, cp := range cps {
		names = append(names, cp.Variant)
	}
	return names
}
