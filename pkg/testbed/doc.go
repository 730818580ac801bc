/*
Package testbed deploys testbed applications and reports how to reach them.

An Orchestrator accepts create requests, submits a deployer job for each
(see package agent) and polls the namespace's Services until one named
after the application appears. Its UID identifies the deployment. When the
Service has no UID the deployment still succeeds with JobID set to
Unknown and Identified false.

# Serialization

Create requests are processed by a single worker started with Run, in
arrival order. A later submission never starts before the previous
deployment's Service was observed or its wait failed. A request whose
caller gave up while it was queued is dropped without touching the
cluster, and requests still queued when Run returns fail as unavailable.

The Service wait is bounded by Config.ReadyTimeout and by the caller's
context. A deployer job that fails ends the wait early; its pod log is
attached to the error.

	o := testbed.NewOrchestrator(clientset, testbed.Config{
		ReadyTimeout: 10 * time.Minute,
		Deployer:     agent.Config{Image: image},
	})
	go o.Run(ctx)

	result, err := o.CreateDeployment(ctx, testbed.ApplicationRequest{
		Application:  "jupyter",
		TemplateData: `{"jupyter_version": "notebook-6.0.3"}`,
	})

# Reads

ListApplications and GetServiceEndpoint read the Service listing directly
and run concurrently with deployments. An endpoint reports the first load
balancer ingress (IP, else hostname) and the first declared port, with
Unknown for values not yet assigned.

# HTTP

Handlers exposes the operations as JSON endpoints:

	POST /v1/deployments
	GET  /v1/applications
	GET  /v1/applications/{name}
*/
package testbed
