package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radiateos/vmcore/vm"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the memory layout constants.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("page size:       %d bytes\n", vm.PageSize)
		fmt.Printf("address width:   %d bits\n", vm.AddressBits)
		fmt.Printf("address space:   %d bytes\n", vm.AddressLimit)
		fmt.Printf("virtual pages:   %d\n", vm.NumPages)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
