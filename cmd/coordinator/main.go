// Command coordinator starts the account-creation coordinator: it loads the
// participant list from a JSON config file and serves CreateAccount over
// the line-oriented transport.
package main

import (
	"flag"
	"log"

	"bank2pc/configs"
	"bank2pc/coordinator"
)

func main() {
	configPath := flag.String("config", configs.ConfigFileLocation, "path to the participants JSON config")
	address := flag.String("address", ":9000", "address to listen on for client CreateAccount requests")
	flag.Parse()

	cfg, err := coordinator.LoadConfig(*configPath)
	configs.CheckError(err)

	manager := coordinator.NewManager(cfg)
	defer manager.Close()

	srv, err := coordinator.NewServer(*address, manager)
	configs.CheckError(err)
	log.Printf("coordinator %s listening on %s, participants=%v", cfg.CoordinatorID, srv.Addr(), cfg.Participants)
	log.Fatal(srv.Serve())
}
