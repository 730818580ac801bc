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

package agent

import (
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
)

// Labels applied to every deployer job and its pod.
const (
	LabelName        = "app.kubernetes.io/name"
	LabelManagedBy   = "app.kubernetes.io/managed-by"
	LabelApplication = "testbed.tsunami/application"

	deployerName = "tsunami-testbed-deployer"
	managedBy    = "tsunami-testbed"
)

// Config holds the configuration for submitting deployer jobs.
type Config struct {
	Namespace          string
	ServiceAccountName string
	// Image is the deployer image; it runs the "deploy" command.
	Image            string
	ImagePullSecrets []string
	// JobTemplatePath is the deployer job template used when a request
	// names none. Empty selects the built-in template.
	JobTemplatePath string
	// JobTemplateDir holds the templates a request may name. Empty rejects
	// requests that name one.
	JobTemplateDir   string
	ActiveDeadline   time.Duration
	TTLAfterFinished time.Duration
}

// Request describes one application deployment to run in a job.
type Request struct {
	Application     string
	TemplateData    string
	ConfigPath      string
	// DeployerJobPath names a template relative to Config.JobTemplateDir.
	DeployerJobPath string
}

// Deployer builds and submits deployer jobs and maintains their RBAC.
type Deployer struct {
	clientset kubernetes.Interface
	config    Config
}

// NewDeployer creates a new Deployer, filling unset config with defaults.
func NewDeployer(clientset kubernetes.Interface, config Config) *Deployer {
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if config.ServiceAccountName == "" {
		config.ServiceAccountName = defaults.DeployerServiceAccount
	}
	if config.ActiveDeadline <= 0 {
		config.ActiveDeadline = defaults.K8sJobActiveDeadline
	}
	if config.TTLAfterFinished <= 0 {
		config.TTLAfterFinished = defaults.K8sJobTTLAfterFinished
	}
	return &Deployer{
		clientset: clientset,
		config:    config,
	}
}

// Namespace returns the namespace jobs are submitted to.
func (d *Deployer) Namespace() string {
	return d.config.Namespace
}
