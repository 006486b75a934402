// Command participant starts one account-creation participant node.
// NODE_ID and PORT come from the environment.
package main

import (
	"log"
	"os"

	"bank2pc/configs"
	"bank2pc/participant"
)

func main() {
	nodeID := os.Getenv("NODE_ID")
	if nodeID == "" {
		log.Fatal("NODE_ID must be set")
	}
	port := os.Getenv("PORT")
	if port == "" {
		log.Fatal("PORT must be set")
	}

	srv, err := participant.NewServer(nodeID, ":"+port)
	configs.CheckError(err)
	log.Printf("participant %s listening on %s", nodeID, srv.Addr())
	log.Fatal(srv.Serve())
}
