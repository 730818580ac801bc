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

package testbed

import (
	"time"

	"github.com/NVIDIA/tsunami-testbed/pkg/k8s/agent"
)

// Unknown is reported in place of values the cluster has not assigned.
const Unknown = "UNKNOWN"

// Phase is the state of a single deployment request.
type Phase string

const (
	PhaseSubmitting        Phase = "SUBMITTING"
	PhaseWaitingForService Phase = "WAITING_FOR_SERVICE"
	PhaseReady             Phase = "READY"
	PhaseFailed            Phase = "FAILED"
)

// ApplicationRequest asks for one application to be deployed.
type ApplicationRequest struct {
	// Application names the bundle to deploy; its Service carries the same name.
	Application string `json:"application" yaml:"application"`
	// TemplateData is a JSON object of template parameters.
	TemplateData string `json:"templateData,omitempty" yaml:"templateData,omitempty"`
	// ConfigPath selects the bundle source: empty, a directory, or oci://.
	ConfigPath string `json:"configPath,omitempty" yaml:"configPath,omitempty"`
	// DeployerJobPath names a deployer job template inside the server's
	// template directory.
	DeployerJobPath string `json:"deployerJobPath,omitempty" yaml:"deployerJobPath,omitempty"`
}

// DeploymentResult is the outcome of a successful deployment.
// Identified is false when the application's Service had no UID, in which
// case JobID is Unknown.
type DeploymentResult struct {
	JobID      string `json:"jobId" yaml:"jobId"`
	JobName    string `json:"jobName" yaml:"jobName"`
	Identified bool   `json:"identified" yaml:"identified"`
	Phase      Phase  `json:"phase" yaml:"phase"`
}

// Endpoint is where a deployed application can be reached.
// IP and Port hold Unknown when IPAssigned or PortDeclared is false.
type Endpoint struct {
	IP           string `json:"ip" yaml:"ip"`
	Port         string `json:"port" yaml:"port"`
	IPAssigned   bool   `json:"-" yaml:"-"`
	PortDeclared bool   `json:"-" yaml:"-"`
}

// ApplicationList is the response body of the list call.
type ApplicationList struct {
	Applications []string `json:"applications" yaml:"applications"`
}

// ApplicationInfo is the response body of the describe call.
type ApplicationInfo struct {
	ServiceEndpoint *Endpoint `json:"serviceEndpoint" yaml:"serviceEndpoint"`
}

// Config configures an Orchestrator.
type Config struct {
	// Namespace for jobs and Services; defaults to "default".
	Namespace string
	// PollInterval between Service listings; defaults to one second.
	PollInterval time.Duration
	// ReadyTimeout bounds the wait for a Service. Zero waits until the
	// caller gives up.
	ReadyTimeout time.Duration
	// QueueSize is the number of create requests that can wait for the worker.
	QueueSize int
	// Deployer configures the deployer jobs. Its namespace is taken from
	// Namespace.
	Deployer agent.Config
}
