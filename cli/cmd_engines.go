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
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/theirish81/fragsjs"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the available JavaScript engines.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		regs := fragsjs.Engines()
		if len(regs) == 0 {
			cmd.PrintErrln(aurora.Yellow("warning:"), fragsjs.ErrNoEngine)
			return
		}
		for i, reg := range regs {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Printf("%s %-6s %-24s flavor=%s priority=%d\n", aurora.Green(marker), reg.ID, reg.DisplayName,
				fragsjs.DetectFlavor(reg.DisplayName), reg.Priority)
		}
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the registered script languages.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range fragsjs.Languages() {
			engineName := lang.EngineName()
			if engineName == "" {
				engineName = aurora.Red("no engine").String()
			}
			fmt.Printf("%-12s %-16s %s\n", lang.Name(), strings.Join(lang.Extensions(), ","), engineName)
		}
	},
}
