package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/tomzim/internal/config"
	"github.com/gerunddev/tomzim/internal/styles"
)

// Init writes a default config file. An existing file is only replaced
// when force is set
func Init(configPath string, force bool) error {
	if configPath == "" {
		configPath = config.ConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
	}

	if err := config.DefaultConfig().SaveFile(configPath); err != nil {
		return err
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Config written: " + configPath))
	fmt.Println(styles.DimStyle.Render("  Edit tomboy_dir and zim_dir, then run 'tomzim convert'"))
	return nil
}
