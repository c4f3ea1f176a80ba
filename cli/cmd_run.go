/*
 * Copyright (C) 2026 Simone Pezzano
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/theirish81/fragsjs"
	"gopkg.in/yaml.v3"
)

var runCmd = &cobra.Command{
	Use:   "run <path/to/script.js>",
	Short: "Run a script and print its result.",
	Long: `
Run a script on the configured JavaScript engine and print the value of its last statement. load() resolves
relative paths against --base-path, which defaults to the directory of the script.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			cmd.PrintErrln(err)
			return
		}
		if _, err := fragsjs.ForFile(args[0]); err != nil {
			cmd.PrintErrln(aurora.Yellow("warning:"), err)
		}
		cfg, err := loadConfig()
		if err != nil {
			cmd.PrintErrln(err)
			return
		}
		if cfg.BasePath == "" {
			cfg.BasePath = filepath.Dir(args[0])
		}
		lang, err := fragsjs.NewJavaScriptLanguage(fragsjs.WithConfig(cfg), fragsjs.WithLogger(newLogger()))
		if err != nil {
			cmd.PrintErrln(err)
			return
		}
		res, err := lang.Eval(cmd.Context(), string(data))
		if err != nil {
			cmd.PrintErrln(aurora.Red("error:"), err)
			return
		}
		text, err := renderResult(res)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}
		if output != "" {
			if err := os.WriteFile(output, text, 0o644); err != nil {
				cmd.PrintErrln(err)
			}
			return
		}
		fmt.Print(string(text))
	},
}

func init() {
	runCmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Output format (yaml or json)")
	runCmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	runCmd.Flags().StringVarP(&basePath, "base-path", "b", "", "Directory or URL load() resolves scripts against")
	runCmd.Flags().StringVarP(&timeout, "timeout", "t", "", "Evaluation timeout, e.g. 30s")
}

func renderResult(out any) ([]byte, error) {
	switch format {
	case formatJSON:
		return json.MarshalIndent(out, "", " ")
	default:
		return yaml.Marshal(out)
	}
}
