package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/dbadmin/infra/common"
	"github.com/GregMSThompson/dbadmin/infra/secret"
)

const containerPort = 8080

// SetupCloudRun builds the api image and deploys it with the database url
// held in Secret Manager.
func SetupCloudRun(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*cloudrun.Service, error) {
	img, err := buildApiImage(ctx, res...)
	if err != nil {
		return nil, err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return nil, err
	}

	apiSA, err := createServiceAccount(ctx, prov)
	if err != nil {
		return nil, err
	}

	sm, err := secret.SetupSecretManager(ctx, prov, apiSA)
	if err != nil {
		return nil, err
	}

	dbSecret, err := createDatabaseSecret(ctx, sm)
	if err != nil {
		return nil, err
	}

	svc, err := createCloudRunService(ctx, img, apiSA, dbSecret, prov, srv, sm.Service())
	if err != nil {
		return nil, err
	}

	err = setIAMAccessPolicy(ctx, svc, prov)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func buildApiImage(ctx *pulumi.Context, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.GenerateHash("../")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "apiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),                    // build from repo root
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"), // Dockerfile path relative to repo root
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/dbadmin/dbadmin-api:%s", region, projectID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	apiSA, err := serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("dbadmin-api"),
		DisplayName: pulumi.String("dbadmin API Service Account"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	// Cloud SQL instances are reached through the connector socket.
	_, err = projects.NewIAMMember(ctx, "cloudSqlClient", &projects.IAMMemberArgs{
		Role: pulumi.String("roles/cloudsql.client"),
		Member: apiSA.Email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
		Project: pulumi.String(projectID),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return apiSA, nil
}

func createDatabaseSecret(ctx *pulumi.Context, sm *secret.Manager) (pulumi.StringOutput, error) {
	dbCfg := config.New(ctx, "database")
	url := dbCfg.RequireSecret("url")

	return sm.AddSecret(ctx, "databaseUrlSecret", "dbadminDatabaseUrl", url)
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	dbSecret pulumi.StringOutput,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	dbCfg := config.New(ctx, "database")
	appCfg := config.New(ctx, "dbadmin")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	logLevel := crCfg.Require("logLevel")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	driver := dbCfg.Require("driver")
	schema := dbCfg.Get("schema")
	authEnabled := appCfg.GetBool("authEnabled")
	corsOrigins := appCfg.Get("corsOrigins")
	if corsOrigins == "" {
		corsOrigins = "*"
	}

	annotations := pulumi.StringMap{
		// Autoscaling bounds
		"autoscaling.knative.dev/minScale": pulumi.String(minScale),
		"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

		// Instance sizing
		"run.googleapis.com/cpu":    pulumi.String(cpu),
		"run.googleapis.com/memory": pulumi.String(memory),

		// Allow throttling when idle (reduces cost)
		"run.googleapis.com/cpu-throttling": pulumi.String("true"),

		// Set the number of concurrent requests per container
		"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
	}
	if instance := dbCfg.Get("cloudSqlInstance"); instance != "" {
		annotations["run.googleapis.com/cloudsql-instances"] = pulumi.String(instance)
	}

	envs := cloudrun.ServiceTemplateSpecContainerEnvArray{
		env("PROJECTID", projectID),
		env("DBADMIN_LOG_LEVEL", logLevel),
		env("DBADMIN_LOG_FORMAT", "json"),
		env("DBADMIN_DATABASE_DRIVER", driver),
		env("DBADMIN_CORS_ORIGINS", corsOrigins),
		env("DBADMIN_AUTH_ENABLED", strconv.FormatBool(authEnabled)),
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name: pulumi.String("DBADMIN_DATABASE_URL_SECRET"),
			Value: dbSecret.ApplyT(func(id string) string {
				return fmt.Sprintf("projects/%s/secrets/%s", projectID, id)
			}).(pulumi.StringOutput),
		},
	}
	if schema != "" {
		envs = append(envs, env("DBADMIN_DATABASE_SCHEMA", schema))
	}

	return cloudrun.NewService(ctx, "apiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),

		Template: &cloudrun.ServiceTemplateArgs{
			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				Annotations: annotations,
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(containerPort),
							},
						},
						Envs: envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func env(name, value string) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
	return &cloudrun.ServiceTemplateSpecContainerEnvArgs{
		Name:  pulumi.String(name),
		Value: pulumi.String(value),
	}
}

func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	// The api checks firebase id tokens itself when auth is enabled, so
	// the service stays reachable.
	_, err := cloudrun.NewIamMember(ctx, "publicInvoker", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}
