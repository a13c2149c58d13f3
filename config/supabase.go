package config

import (
	"fmt"
	"log"
	"os"

	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// SupabaseClient provides the Storage and Auth sub-clients.
var SupabaseClient *supa.Client

// PostgrestClient talks to the videos table directly.
var PostgrestClient *postgrest.Client

// InitSupabase initializes the Supabase and PostgREST clients from
// environment variables. SUPABASE_SERVICE_KEY takes precedence over the
// anonymous key.
func InitSupabase() error {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL must be set")
	}

	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if supabaseKey == "" {
		supabaseKey = os.Getenv("SUPABASE_ANON_KEY")
		if supabaseKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY or SUPABASE_ANON_KEY must be set")
		}
		log.Println("Warning: Using anonymous key for Supabase. Set SUPABASE_SERVICE_KEY for full access.")
	}

	client, err := supa.NewClient(supabaseURL, supabaseKey, nil)
	if err != nil {
		return fmt.Errorf("initializing Supabase client: %w", err)
	}
	SupabaseClient = client

	PostgrestClient = postgrest.NewClient(supabaseURL+"/rest/v1", "", map[string]string{
		"apikey":        supabaseKey,
		"Authorization": fmt.Sprintf("Bearer %s", supabaseKey),
	})
	if PostgrestClient.ClientError != nil {
		return fmt.Errorf("initializing PostgREST client: %w", PostgrestClient.ClientError)
	}

	log.Println("Supabase clients initialized successfully.")
	return nil
}
