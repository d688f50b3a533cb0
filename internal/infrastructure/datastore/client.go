package datastore

import (
	"context"

	"cloud.google.com/go/datastore"
	"google.golang.org/api/option"
)

// NewClient creates a Cloud Datastore client. If credsPath is empty,
// Application Default Credentials are used.
func NewClient(ctx context.Context, projectID, credsPath string) (*datastore.Client, error) {
	if credsPath == "" {
		return datastore.NewClient(ctx, projectID)
	}
	return datastore.NewClient(ctx, projectID, option.WithCredentialsFile(credsPath))
}
