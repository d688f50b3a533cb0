package bigquery

import (
	"context"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"
)

// NewClient creates a BigQuery client. If credsPath is empty, Application
// Default Credentials are used.
func NewClient(ctx context.Context, projectID, credsPath string) (*bigquery.Client, error) {
	if credsPath == "" {
		return bigquery.NewClient(ctx, projectID)
	}
	return bigquery.NewClient(ctx, projectID, option.WithCredentialsFile(credsPath))
}
