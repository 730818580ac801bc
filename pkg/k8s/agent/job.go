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
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/tsunami-testbed/pkg/bundle"
	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/manifest"
	"github.com/NVIDIA/tsunami-testbed/pkg/params"
	"github.com/NVIDIA/tsunami-testbed/pkg/render"
)

// maxNameLength bounds job names so the derived pod label stays valid.
const maxNameLength = 63

// JobName returns a fresh deployer job name for app.
func JobName(app string) string {
	suffix := "-deployer-" + uuid.NewString()[:8]
	base := strings.ToLower(app)
	if max := maxNameLength - len(suffix); len(base) > max {
		base = strings.TrimRight(base[:max], "-.")
	}
	return base + suffix
}

// Submit builds the deployer job for req and creates it in the cluster.
func (d *Deployer) Submit(ctx context.Context, req Request) (*batchv1.Job, error) {
	job, err := d.BuildJob(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.K8sJobCreationTimeout)
	defer cancel()

	created, err := d.clientset.BatchV1().Jobs(d.config.Namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to create deployer job", err,
			map[string]any{
				"application": req.Application,
				"job":         job.Name,
				"namespace":   d.config.Namespace,
			})
	}
	return created, nil
}

// BuildJob renders the deployer job template for req.
//
// Every template parameter is substituted as a double-quoted YAML scalar,
// so arbitrary template data survives as a single container argument.
func (d *Deployer) BuildJob(req Request) (*batchv1.Job, error) {
	if req.Application == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "application name is required")
	}
	if d.config.Image == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "deployer image is not configured")
	}

	tmpl, err := d.jobTemplate(req)
	if err != nil {
		return nil, err
	}
	fromRequest := req.DeployerJobPath != ""

	name := JobName(req.Application)
	values := params.Map{
		"app":            req.Application,
		"configPath":     req.ConfigPath,
		"templateData":   req.TemplateData,
		"image":          d.config.Image,
		"namespace":      d.config.Namespace,
		"jobName":        name,
		"serviceAccount": d.config.ServiceAccountName,
	}
	for k, v := range values {
		values[k] = strconv.Quote(v)
	}

	rendered, err := render.Render(tmpl, values)
	if err != nil {
		return nil, templateError(fromRequest, "failed to render deployer job template", err)
	}

	resources, err := manifest.Decode(rendered)
	if err != nil {
		return nil, templateError(fromRequest, "failed to decode deployer job template", err)
	}
	if len(resources) != 1 || resources[0].Kind != manifest.KindJob {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "deployer job template must contain exactly one Job")
	}

	job := resources[0].Object.(*batchv1.Job)
	d.applyDefaults(job, req.Application, name)
	return job, nil
}

func (d *Deployer) jobTemplate(req Request) (string, error) {
	if req.DeployerJobPath != "" {
		return bundle.DeployerJobIn(d.config.JobTemplateDir, req.DeployerJobPath)
	}
	return bundle.DeployerJob(d.config.JobTemplatePath)
}

// templateError keeps the cause out of errors about request-named
// templates, since it can quote the template's content.
func templateError(fromRequest bool, message string, err error) error {
	if !fromRequest {
		return apperrors.Wrap(apperrors.ErrCodeInternal, message, err)
	}
	slog.Warn(message, "error", err)
	return apperrors.New(apperrors.ErrCodeInternal, message)
}

// applyDefaults fills in what the template leaves unset and enforces the
// identity the testbed relies on: name, namespace and labels.
func (d *Deployer) applyDefaults(job *batchv1.Job, app, name string) {
	job.Name = name
	job.Namespace = d.config.Namespace
	job.Labels = withIdentity(job.Labels, app)
	job.Spec.Template.Labels = withIdentity(job.Spec.Template.Labels, app)

	spec := &job.Spec
	if spec.Completions == nil {
		spec.Completions = ptr.To(int32(1))
	}
	if spec.Parallelism == nil {
		spec.Parallelism = ptr.To(int32(1))
	}
	if spec.BackoffLimit == nil {
		spec.BackoffLimit = ptr.To(int32(0))
	}
	if spec.TTLSecondsAfterFinished == nil {
		spec.TTLSecondsAfterFinished = ptr.To(int32(d.config.TTLAfterFinished.Seconds()))
	}
	if spec.ActiveDeadlineSeconds == nil {
		spec.ActiveDeadlineSeconds = ptr.To(int64(d.config.ActiveDeadline.Seconds()))
	}

	pod := &spec.Template.Spec
	if pod.RestartPolicy == "" {
		pod.RestartPolicy = corev1.RestartPolicyNever
	}
	if pod.ServiceAccountName == "" {
		pod.ServiceAccountName = d.config.ServiceAccountName
	}
	if len(pod.ImagePullSecrets) == 0 {
		pod.ImagePullSecrets = toLocalObjectReferences(d.config.ImagePullSecrets)
	}
}

func withIdentity(labels map[string]string, app string) map[string]string {
	if labels == nil {
		labels = map[string]string{}
	}
	labels[LabelName] = deployerName
	labels[LabelManagedBy] = managedBy
	labels[LabelApplication] = app
	return labels
}

// toLocalObjectReferences converts a slice of secret names to LocalObjectReferences.
func toLocalObjectReferences(names []string) []corev1.LocalObjectReference {
	if len(names) == 0 {
		return nil
	}
	refs := make([]corev1.LocalObjectReference, len(names))
	for i, name := range names {
		refs[i] = corev1.LocalObjectReference{Name: name}
	}
	return refs
}
