/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cfdmesh/structmesh/blockmesh"
	"github.com/cfdmesh/structmesh/comm"
	"github.com/cfdmesh/structmesh/dict"
	"github.com/cfdmesh/structmesh/mesh"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the refined mesh from a block mesh dictionary",
	Long: `Generate the refined mesh from a block mesh dictionary. With --np
greater than one the topology is partitioned (unless the dictionary already
carries a distribution) and one in-process rank per partition builds its
share of the mesh.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			m   *model
		)
		if m, err = parseGenerateFlags(cmd); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if m.Profile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		if err = runGenerate(m); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

type model struct {
	DictFile string
	NP       int
	Axis     int
	Overlap  int
	Check    bool
	Profile  bool
	Verbose  bool
}

func parseGenerateFlags(cmd *cobra.Command) (m *model, err error) {
	m = &model{}
	if m.DictFile, err = cmd.Flags().GetString("dictFile"); err != nil {
		return
	}
	if len(m.DictFile) == 0 {
		err = fmt.Errorf("must supply a dictionary file (-f, --dictFile) in YAML format")
		return
	}
	m.NP, _ = cmd.Flags().GetInt("np")
	m.Overlap, _ = cmd.Flags().GetInt("overlap")
	m.Check, _ = cmd.Flags().GetBool("check")
	m.Profile, _ = cmd.Flags().GetBool("profile")
	m.Verbose, _ = cmd.Flags().GetBool("verbose")
	axis, _ := cmd.Flags().GetString("axis")
	if m.Axis, err = parseAxis(axis); err != nil {
		return
	}
	if m.NP < 1 {
		m.NP = 1
	}
	return
}

func parseAxis(axis string) (int, error) {
	switch axis {
	case "", "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown axis %q, want x, y or z", axis)
}

func runGenerate(m *model) error {
	md, err := dict.ReadFile(m.DictFile)
	if err != nil {
		return err
	}
	md.Print()
	topo, err := md.Topology()
	if err != nil {
		return err
	}
	opts := blockmesh.Options{
		Overlap:       m.Overlap,
		PartitionAxis: m.Axis,
		CheckTopology: m.Check,
		Verbose:       m.Verbose,
	}

	if m.NP == 1 {
		result, err := blockmesh.Generate(topo, comm.Serial{}, opts)
		if err != nil {
			return err
		}
		fmt.Print(result.Statistics())
		return nil
	}

	var (
		ranks   = comm.NewGroup(m.NP)
		results = make([]*mesh.Mesh, m.NP)
		errs    = make([]error, m.NP)
		wg      sync.WaitGroup
	)
	for n := 0; n < m.NP; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = blockmesh.Generate(topo, ranks[n], opts)
		}(n)
	}
	wg.Wait()
	for n := 0; n < m.NP; n++ {
		if errs[n] != nil {
			return errs[n]
		}
	}
	for n := 0; n < m.NP; n++ {
		fmt.Print(results[n].Statistics())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("dictFile", "f", "", "block mesh dictionary in YAML format")
	generateCmd.Flags().IntP("np", "n", 1, "number of in-process ranks")
	generateCmd.Flags().String("axis", "x", "partitioning axis when the dictionary has no distribution")
	generateCmd.Flags().Int("overlap", 0, "rings of ghost cell overlap to grow")
	generateCmd.Flags().Bool("check", false, "verify the topology hash across ranks")
	generateCmd.Flags().Bool("profile", false, "write a CPU profile")
	generateCmd.Flags().BoolP("verbose", "v", false, "log generation progress")
}
