package bootstrap

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// secretSource returns the payload of a fully qualified secret version.
type secretSource func(ctx context.Context, version string) ([]byte, error)

// ResolveSecret reads the latest version of a Secret Manager secret. name
// is either a bare secret id or a projects/.../secrets/... resource.
func ResolveSecret(ctx context.Context, projectID, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	return resolveSecret(ctx, func(ctx context.Context, version string) ([]byte, error) {
		res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: version})
		if err != nil {
			return nil, err
		}
		return res.Payload.Data, nil
	}, projectID, name)
}

func resolveSecret(ctx context.Context, source secretSource, projectID, name string) (string, error) {
	version, err := secretVersionName(projectID, name)
	if err != nil {
		return "", err
	}
	data, err := source(ctx, version)
	switch status.Code(err) {
	case codes.OK:
	case codes.NotFound:
		return "", fmt.Errorf("secret %s not found", version)
	case codes.PermissionDenied:
		return "", fmt.Errorf("no access to secret %s: %w", version, err)
	default:
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// secretVersionName expands name to projects/{project}/secrets/{id}/versions/{v},
// defaulting the version to latest.
func secretVersionName(projectID, name string) (string, error) {
	if strings.HasPrefix(name, "projects/") {
		if strings.Contains(name, "/versions/") {
			return name, nil
		}
		return name + "/versions/latest", nil
	}
	if projectID == "" {
		return "", fmt.Errorf("project_id is required to resolve secret %q", name)
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name), nil
}
