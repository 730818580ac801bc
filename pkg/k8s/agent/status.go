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
	"bytes"
	"context"
	"fmt"
	"io"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

// jobNameLabel is set by the job controller on every pod it creates.
const jobNameLabel = "batch.kubernetes.io/job-name"

// maxLogBytes bounds the pod log tail returned by JobLogs.
const maxLogBytes int64 = 16 * 1024

// JobState summarizes a deployer job's terminal conditions.
type JobState struct {
	Complete bool
	Failed   bool
	Message  string
}

// JobState reads the named job and reports whether it has finished.
func (d *Deployer) JobState(ctx context.Context, name string) (JobState, error) {
	job, err := d.clientset.BatchV1().Jobs(d.config.Namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return JobState{}, fmt.Errorf("failed to get job %s: %w", name, err)
	}
	return stateOf(job), nil
}

func stateOf(job *batchv1.Job) JobState {
	for _, condition := range job.Status.Conditions {
		if condition.Status != corev1.ConditionTrue {
			continue
		}
		switch condition.Type {
		case batchv1.JobComplete:
			return JobState{Complete: true, Message: condition.Message}
		case batchv1.JobFailed:
			return JobState{Failed: true, Message: condition.Message}
		}
	}
	return JobState{}
}

// JobLogs returns the tail of the logs of the job's first pod.
func (d *Deployer) JobLogs(ctx context.Context, name string) (string, error) {
	pods, err := d.clientset.CoreV1().Pods(d.config.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: jobNameLabel + "=" + name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to list Pods: %w", err)
	}
	if len(pods.Items) == 0 {
		return "", fmt.Errorf("no Pods found for Job %s", name)
	}

	pod := pods.Items[0]
	req := d.clientset.CoreV1().Pods(d.config.Namespace).GetLogs(pod.Name, &corev1.PodLogOptions{
		LimitBytes: ptr.To(maxLogBytes),
	})

	logs, err := req.Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to stream logs: %w", err)
	}
	defer logs.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, logs); err != nil {
		return "", fmt.Errorf("failed to read logs: %w", err)
	}
	return buf.String(), nil
}
