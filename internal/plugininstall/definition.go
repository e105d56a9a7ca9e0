package plugininstall

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/hashicorp/pluginstall/internal/getplugins"
)

// Definition is an already-constructed resolution request: requirements
// plus the source list to resolve them against, built upstream of the
// installer rather than derived from options.
//
// A definition can optionally persist the outcome of its resolution to a
// lock file, recording which version each plugin settled on. The
// InstallFromDefinition entry point always disables that persistence.
type Definition struct {
	Requirements getplugins.Requirements
	Sources      *getplugins.SourceList

	// PersistLock controls whether a successful resolution is recorded
	// at LockPath. It has no effect when LockPath is empty.
	PersistLock bool
	LockPath    string
}

// writeLocks records the resolved plugin versions at the definition's
// lock path.
func (d *Definition) writeLocks(resolved []*getplugins.ResolvedPlugin) error {
	if d.LockPath == "" {
		return nil
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, plugin := range resolved {
		block := body.AppendNewBlock("plugin", []string{plugin.Plugin.Name})
		block.Body().SetAttributeValue("version", cty.StringVal(plugin.Version.String()))
		block.Body().SetAttributeValue("source", cty.StringVal(plugin.Source.ForDisplay()))
		body.AppendNewline()
	}

	if err := os.WriteFile(d.LockPath, f.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write plugin lock file %s: %s", d.LockPath, err)
	}
	return nil
}
