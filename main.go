// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/notemd/notemd/cmd/notemd"

func main() {
	cmd.Execute()
}
