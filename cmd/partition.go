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

	"github.com/spf13/cobra"

	"github.com/cfdmesh/structmesh/blockmesh"
	"github.com/cfdmesh/structmesh/dict"
)

// partitionCmd represents the partition command
var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Split the blocks of a dictionary into balanced partitions",
	Long: `Split the blocks of a dictionary along one axis into partitions of
roughly equal element count, cutting blocks mid-grading where a layer
boundary does not line up, and write the rewritten dictionary.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPartition(cmd); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func runPartition(cmd *cobra.Command) error {
	dictFile, _ := cmd.Flags().GetString("dictFile")
	outFile, _ := cmd.Flags().GetString("outFile")
	nbParts, _ := cmd.Flags().GetInt("parts")
	axisName, _ := cmd.Flags().GetString("axis")
	if len(dictFile) == 0 || len(outFile) == 0 {
		return fmt.Errorf("must supply input (-f) and output (-o) dictionary files")
	}
	axis, err := parseAxis(axisName)
	if err != nil {
		return err
	}

	md, err := dict.ReadFile(dictFile)
	if err != nil {
		return err
	}
	topo, err := md.Topology()
	if err != nil {
		return err
	}
	partitioned, err := blockmesh.Partition(topo, nbParts, axis)
	if err != nil {
		return err
	}
	out := dict.FromTopology(partitioned, md.Title)
	if err = out.WriteFile(outFile); err != nil {
		return err
	}
	fmt.Printf("wrote %d blocks in %d partitions to %s\n",
		partitioned.NbBlocks(), nbParts, outFile)
	return nil
}

func init() {
	rootCmd.AddCommand(partitionCmd)
	partitionCmd.Flags().StringP("dictFile", "f", "", "block mesh dictionary in YAML format")
	partitionCmd.Flags().StringP("outFile", "o", "", "output dictionary file")
	partitionCmd.Flags().IntP("parts", "n", 1, "number of partitions")
	partitionCmd.Flags().String("axis", "x", "partitioning axis")
}
