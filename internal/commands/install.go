package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/gerunddev/tomzim/internal/styles"
)

const (
	launchdLabel = "com.gerunddev.tomzim"
	systemdUnit  = "tomzim.service"
)

// serviceFile returns where the login service for goos lives and what it
// contains. The service runs the watcher from execPath
func serviceFile(goos, home, execPath string) (string, string, error) {
	switch goos {
	case "darwin":
		path := filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist")
		content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>watch</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/tmp/tomzim.out.log</string>
	<key>StandardErrorPath</key>
	<string>/tmp/tomzim.err.log</string>
</dict>
</plist>
`, launchdLabel, execPath)
		return path, content, nil

	case "linux":
		path := filepath.Join(home, ".config", "systemd", "user", systemdUnit)
		content := fmt.Sprintf(`[Unit]
Description=tomzim - keep a zim notebook in step with Tomboy notes

[Service]
Type=simple
ExecStart=%s watch
Restart=on-failure
RestartSec=10

[Install]
WantedBy=default.target
`, execPath)
		return path, content, nil

	default:
		return "", "", fmt.Errorf("unsupported operating system %s (supported: darwin, linux)", goos)
	}
}

// Install writes a login service that runs the watcher
func Install() error {
	fmt.Println(styles.TitleStyle.Render("tomzim install"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	path, content, err := serviceFile(runtime.GOOS, home, execPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create service directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write service file: %w", err)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file created: " + path))
	fmt.Println()
	fmt.Println("To enable the service:")
	if runtime.GOOS == "darwin" {
		fmt.Println(styles.DimStyle.Render("  launchctl load " + path))
	} else {
		fmt.Println(styles.DimStyle.Render("  systemctl --user daemon-reload"))
		fmt.Println(styles.DimStyle.Render("  systemctl --user enable --now " + systemdUnit))
	}
	return nil
}

// Uninstall stops and removes the login service
func Uninstall() error {
	fmt.Println(styles.TitleStyle.Render("tomzim uninstall"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	path, _, err := serviceFile(runtime.GOOS, home, "")
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(styles.WarningStyle.Render("⚠ Service file not found: " + path))
		fmt.Println("Nothing to uninstall.")
		return nil
	}

	// Errors here only mean the service was not loaded
	if runtime.GOOS == "darwin" {
		if err := exec.Command("launchctl", "unload", path).Run(); err != nil {
			fmt.Println(styles.WarningStyle.Render("⚠ Could not unload service (may not be loaded): " + err.Error()))
		}
	} else {
		if err := exec.Command("systemctl", "--user", "disable", "--now", systemdUnit).Run(); err != nil {
			fmt.Println(styles.WarningStyle.Render("⚠ Could not disable service (may not be enabled): " + err.Error()))
		}
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove service file: %w", err)
	}

	if runtime.GOOS == "linux" {
		if err := exec.Command("systemctl", "--user", "daemon-reload").Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload systemd: %v\n", err)
		}
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file removed: " + path))
	return nil
}
