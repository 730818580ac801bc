// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package agent submits the Kubernetes Jobs that deploy testbed applications.

A deployer job runs the testbed image with the "deploy" command inside the
cluster. The job spec is rendered from a YAML template (the built-in one,
the configured one, or one named on the request). Every value substituted
into it is a quoted YAML scalar, so template data travels as a single
argument regardless of its content.

# RBAC

Prepare checks the server's own permissions through SelfSubjectAccessReview
and creates the ServiceAccount, Role and RoleBinding the deployer job runs
with. Missing server permissions are logged, not fatal. Existing resources
are reused, so Prepare can run on every startup; Cleanup removes them.

# Usage Example

	clientset, _, err := client.New(client.Options{})
	if err != nil {
		return err
	}

	deployer := agent.NewDeployer(clientset, agent.Config{
		Namespace: "testbed",
		Image:     "ghcr.io/nvidia/tsunami-testbed:latest",
	})
	if _, err := deployer.Prepare(ctx); err != nil {
		return err
	}

	job, err := deployer.Submit(ctx, agent.Request{
		Application:  "jupyter",
		TemplateData: `{"jupyter_version": "notebook-6.0.3"}`,
	})

# Job State

JobState reports whether a job has completed or failed. JobLogs returns the
tail of the job pod's log, used to explain failures.
*/
package agent
