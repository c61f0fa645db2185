package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ormimu/ormimu/internal/device"
	"github.com/ormimu/ormimu/internal/shared"
)

// DeviceInit writes a default device config to a destination folder.
func (r *Runner) DeviceInit(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("root")
	if root == "" {
		return fmt.Errorf("%w: root", shared.ErrMissingArgument)
	}

	existing, err := device.LoadConfig(root)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: device config already exists at %s", shared.ErrInvalidInput, root)
	}

	config := device.DefaultConfig()
	if err := device.SaveConfig(config, root); err != nil {
		return err
	}

	r.logger.Info("initialized device", "root", root, "id", config.ID)
	return r.writePlain("Initialized device %s at %s\n", config.ID, root)
}

// DeviceShow prints the device config and a manifest summary.
func (r *Runner) DeviceShow(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("root")
	if root == "" {
		return fmt.Errorf("%w: root", shared.ErrMissingArgument)
	}

	config, err := device.LoadConfig(root)
	if err != nil {
		return err
	}
	if config == nil {
		return fmt.Errorf("%w: no device config at %s", shared.ErrMissingConfig, root)
	}

	manifest := device.LoadManifest(root)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"config":       config,
			"trackedFiles": len(manifest.Files),
		}, true)
	}

	r.writePlain("Device: %s (%s)\n", config.Alias, config.ID)
	r.writePlain("Layout: %s\n", config.Layout)
	r.writePlain("Formats: %v (transcode target: %s)\n", config.SupportedFormats, config.TargetFormat())
	r.writePlain("Randomized play order: %v\n", config.RandomizeFlat)
	r.writePlain("Tracked files: %d\n", len(manifest.Files))
	return nil
}

// DeviceSet updates the device sync policy in place.
func (r *Runner) DeviceSet(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("root")
	if root == "" {
		return fmt.Errorf("%w: root", shared.ErrMissingArgument)
	}

	config, err := device.LoadConfig(root)
	if err != nil {
		return err
	}
	if config == nil {
		config = device.DefaultConfig()
	}

	if alias := cmd.String("alias"); alias != "" {
		config.Alias = alias
	}
	if formats := cmd.StringSlice("format"); len(formats) > 0 {
		config.SupportedFormats = formats
	}
	switch cmd.String("layout") {
	case "":
	case "flat":
		config.Layout = device.LayoutFlat
	case "hierarchical":
		config.Layout = device.LayoutHierarchical
	default:
		return fmt.Errorf("%w: layout must be flat or hierarchical", shared.ErrInvalidFlag)
	}
	if cmd.IsSet("randomize") {
		config.RandomizeFlat = cmd.Bool("randomize")
	}

	if err := device.SaveConfig(config, root); err != nil {
		return err
	}

	r.logger.Info("updated device config", "root", root, "layout", config.Layout)
	return r.writePlain("Updated device %s\n", config.Alias)
}

// DeviceInspect reports destination volume capacity.
func (r *Runner) DeviceInspect(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("root")
	if root == "" {
		return fmt.Errorf("%w: root", shared.ErrMissingArgument)
	}

	info, err := device.Inspect(root)
	if err != nil {
		return err
	}

	r.writePlain("Volume at %s\n", root)
	r.writePlain("Total: %.1f MB\n", float64(info.TotalBytes)/1e6)
	r.writePlain("Free:  %.1f MB\n", float64(info.FreeBytes)/1e6)
	return nil
}
