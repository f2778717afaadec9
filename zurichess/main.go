package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/pkg/profile"
)

var (
	buildVersion = "(devel)"
	buildTime    = "(just now)"

	cpuprofile = flag.String("cpuprofile", "", "directory to write a CPU profile to")
	memprofile = flag.String("memprofile", "", "directory to write a memory profile to")
	version    = flag.Bool("version", false, "only print version and exit")
)

func main() {
	fmt.Printf("corvid %v, build with %v at %v, running on %v\n",
		buildVersion, runtime.Version(), buildTime, runtime.GOARCH)

	flag.Parse()
	if *version {
		return
	}

	switch {
	case *cpuprofile != "":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuprofile)).Stop()
	case *memprofile != "":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(*memprofile)).Stop()
	}

	log.SetOutput(os.Stdout)
	log.SetPrefix("info string ")
	log.SetFlags(log.Lshortfile)

	bio := bufio.NewReader(os.Stdin)
	uci := NewUCI()
	for {
		line, _, err := bio.ReadLine()
		if err != nil {
			log.Println("error:", err)
			break
		}
		if err := uci.Execute(string(line)); err != nil {
			if err != errQuit {
				log.Println("for line:", string(line))
				log.Println("error:", err)
			}
		}
	}
}
