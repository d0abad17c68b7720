// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/walteh/rewrite-history/pkg/infotext"
)

// VersionInfo describes the binary and the image formats it handles
type VersionInfo struct {
	Version    string   `json:"version"`
	Revision   string   `json:"revision,omitempty"`
	Modified   bool     `json:"modified,omitempty"`
	GoVersion  string   `json:"go_version"`
	Platform   string   `json:"platform"`
	Infotext   []string `json:"infotext_formats"`
	DecodeOnly []string `json:"decode_only_formats"`
}

// GetVersionInfo reads the module version and vcs revision from build info
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:    "dev",
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Infotext:   infotext.WritableFormats(),
		DecodeOnly: infotext.DecodeOnlyFormats(),
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := buildInfo.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// String renders the banner printed by the version command
func (v *VersionInfo) String() string {
	var b strings.Builder
	b.WriteString("🚀 rewrite-history version info:\n")
	fmt.Fprintf(&b, "Version:   %s\n", v.Version)
	if v.Revision != "" {
		modified := ""
		if v.Modified {
			modified = " (modified)"
		}
		fmt.Fprintf(&b, "Revision:  %s%s\n", v.Revision, modified)
	}
	fmt.Fprintf(&b, "Go:        %s\n", v.GoVersion)
	fmt.Fprintf(&b, "Platform:  %s\n", v.Platform)
	fmt.Fprintf(&b, "Infotext:  %s\n", strings.Join(v.Infotext, ", "))
	fmt.Fprintf(&b, "Read only: %s\n", strings.Join(v.DecodeOnly, ", "))
	return b.String()
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and supported formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := GetVersionInfo()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), info.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as json")
	return cmd
}
