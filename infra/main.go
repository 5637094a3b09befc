package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/dbadmin/infra/cloudrun"
	"github.com/GregMSThompson/dbadmin/infra/docker"
	"github.com/GregMSThompson/dbadmin/infra/identity"
	"github.com/GregMSThompson/dbadmin/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		deps := []pulumi.Resource{}

		// firebase sign in is only needed when the api checks id tokens
		if config.New(ctx, "dbadmin").GetBool("authEnabled") {
			ident, err := identity.SetupIdentity(ctx, prov)
			if err != nil {
				return err
			}
			deps = append(deps, ident)
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}
		deps = append(deps, repo)

		svc, err := cloudrun.SetupCloudRun(ctx, prov, deps...)
		if err != nil {
			return err
		}

		ctx.Export("url", svc.Statuses.Index(pulumi.Int(0)).Url())
		return nil
	})
}
