package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"syncly.dev/internal/auth"
)

// mktoken issues a signed development token from the command line.
// Requires SYNCLY_AUTH_SECRET in the environment.
func main() {
	log.SetFlags(0)
	var (
		userID        = flag.String("user", "", "user identifier (required)")
		tenantID      = flag.String("tenant", "", "tenant identifier")
		platformAdmin = flag.Bool("platform-admin", false, "issue a platform admin token")
		tenantAdmin   = flag.Bool("tenant-admin", false, "set the verified tenant admin claim")
		roleID        = flag.String("role-id", "", "tenant role document id")
		roleName      = flag.String("role", "", "legacy role name (Employee, Team Lead, Manager, Tenant Admin)")
		ttl           = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	if *userID == "" {
		log.Fatal("missing -user")
	}

	actor := auth.NewActor(*userID, *tenantID, *platformAdmin, *tenantAdmin, *roleID, *roleName)
	token, err := auth.GenerateToken(actor, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
