// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mxfkit/mxf"
	"github.com/mxfkit/mxf/bytesource"
)

var (
	wantPreface    bool
	wantPackages   bool
	wantEssence    bool
	wantDiagnostic bool
	all            bool
)

func prettyPrint(buf []byte) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		log.Println("JSON indent error:", err)
		return string(buf)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func dumpFile(filename string, cmd *cobra.Command) {
	log.Printf("processing %s", filename)

	src, err := bytesource.OpenMMap(filename)
	if err != nil {
		log.Printf("error opening %s: %v", filename, err)
		return
	}
	defer src.Close()

	hp, err := mxf.New(src, mxf.Options{})
	if err != nil {
		log.Printf("error parsing %s: %v", filename, err)
		return
	}

	wantP, _ := cmd.Flags().GetBool("preface")
	if wantP || all {
		b, _ := json.Marshal(hp.Preface())
		fmt.Println(prettyPrint(b))
	}

	wantPkg, _ := cmd.Flags().GetBool("packages")
	if wantPkg || all {
		b, _ := json.Marshal(struct {
			Material []*mxf.MaterialPackage `json:"material_packages"`
			Source   []*mxf.SourcePackage   `json:"source_packages"`
		}{hp.MaterialPackages(), hp.SourcePackages()})
		fmt.Println(prettyPrint(b))
	}

	wantEss, _ := cmd.Flags().GetBool("essence")
	if wantEss || all {
		b, _ := json.Marshal(hp.EssenceDescriptors())
		fmt.Println(prettyPrint(b))
		fmt.Printf("essence duration: %d\n", hp.EssenceDuration())
	}

	wantDiag, _ := cmd.Flags().GetBool("diagnostics")
	if wantDiag || all {
		for _, d := range hp.Diagnostics() {
			fmt.Println(d.String())
		}
	}
}

func dump(cmd *cobra.Command, args []string) {
	path := args[0]

	if !isDirectory(path) {
		dumpFile(path, cmd)
		return
	}

	var files []string
	filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	for _, f := range files {
		dumpFile(f, cmd)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mxfdump",
		Short: "A Header Partition parser for IMF-constrained MXF files",
		Long:  "mxfdump reads the Header Partition of an MXF file (SMPTE ST 377-1) under the IMF Essence Component profile (SMPTE ST 2067-5) and dumps its structural metadata.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("mxfdump version 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump a Header Partition",
		Long:  "Dump the structural metadata decoded from one or more MXF files' Header Partitions.",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	dumpCmd.Flags().BoolVarP(&wantPreface, "preface", "", false, "dump the Preface and Identification sets")
	dumpCmd.Flags().BoolVarP(&wantPackages, "packages", "", false, "dump material and source packages")
	dumpCmd.Flags().BoolVarP(&wantEssence, "essence", "", false, "dump essence descriptors and computed duration")
	dumpCmd.Flags().BoolVarP(&wantDiagnostic, "diagnostics", "", false, "dump accumulated diagnostics")
	dumpCmd.Flags().BoolVarP(&all, "all", "", false, "dump everything")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
