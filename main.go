package main

import (
	"oss.terrastruct.com/util-go/xmain"

	"github.com/Josexato/almagag/agcli"
)

func main() {
	xmain.Main(agcli.Run)
}
