// Command apikey mints an API key for Conecta clients, signed with the
// server's secret. It reads the same configuration as the server; -r picks
// the role (anon or service).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/conecta/internal/flagx"
	"github.com/dmitrijs2005/conecta/internal/server/auth"
	"github.com/dmitrijs2005/conecta/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("apikey", flag.ExitOnError)
	role := fs.String("r", auth.RoleAnon, "key role")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-r"})); err != nil {
		log.Fatalf("%v", err)
	}

	if *role != auth.RoleAnon && *role != auth.RoleService {
		log.Fatalf("unknown role %q", *role)
	}

	key, err := auth.GenerateAPIKey(*role, []byte(cfg.SecretKey), cfg.APIKeyValidity)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(key)

}
