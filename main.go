// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/overpack/overpack/cmd/overpack"

func main() {
	cmd.Execute()
}
