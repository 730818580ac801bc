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

package manifest

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// Kind identifies a resource type the multiplexer knows how to create.
type Kind int

const (
	KindUnknown Kind = iota
	KindDeployment
	KindService
	KindPod
	KindPersistentVolumeClaim
	KindJob
	KindSecret
	KindConfigMap
)

func (k Kind) String() string {
	switch k {
	case KindDeployment:
		return "Deployment"
	case KindService:
		return "Service"
	case KindPod:
		return "Pod"
	case KindPersistentVolumeClaim:
		return "PersistentVolumeClaim"
	case KindJob:
		return "Job"
	case KindSecret:
		return "Secret"
	case KindConfigMap:
		return "ConfigMap"
	case KindUnknown:
		return "Unknown"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// kindOf classifies a decoded object.
func kindOf(obj runtime.Object) Kind {
	switch obj.(type) {
	case *appsv1.Deployment:
		return KindDeployment
	case *corev1.Service:
		return KindService
	case *corev1.Pod:
		return KindPod
	case *corev1.PersistentVolumeClaim:
		return KindPersistentVolumeClaim
	case *batchv1.Job:
		return KindJob
	case *corev1.Secret:
		return KindSecret
	case *corev1.ConfigMap:
		return KindConfigMap
	default:
		return KindUnknown
	}
}

// KindError reports a manifest document whose kind has no creation handler.
type KindError struct {
	// Index is the zero-based position of the document among the
	// manifest's non-empty documents.
	Index int
	// Kind is the declared kind, empty when the document declares none.
	Kind string
}

func (e *KindError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("manifest document %d declares no kind", e.Index)
	}
	return fmt.Sprintf("manifest document %d has unsupported kind %q", e.Index, e.Kind)
}
