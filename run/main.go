package main

import (
	"flag"
	"fmt"
	"log"

	dynamodera "github.com/ClimeTrend/DynaModERA"
	"github.com/maseology/mmio"
)

var (
	configPath = flag.String("config", "config.ini", "path to the run configuration file")
	section    = flag.String("section", "era5-dmd", "configuration section to run")
)

func main() {
	flag.Parse()

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap("\nrun complete")

	cfg, err := dynamodera.LoadConfig(*configPath, *section)
	if err != nil {
		log.Fatalf("DynaModERA: %v", err)
	}
	lg, err := dynamodera.NewLogger(cfg.LogFile)
	if err != nil {
		log.Fatalf("DynaModERA: %v", err)
	}
	defer lg.Sync()

	p, err := dynamodera.NewPipeline(cfg, lg)
	if err != nil {
		lg.Fatalf("build: %v", err)
	}
	tt.Print("data matrix build complete\n")

	rep, err := p.Evaluate()
	if err != nil {
		lg.Fatalf("evaluate: %v", err)
	}
	lg.Infof("analysis complete; results saved with timestamp %s", rep.Timestamp)
}
