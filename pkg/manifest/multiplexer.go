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
	"context"
	"fmt"
	"log/slog"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
)

// Created records one object the multiplexer created.
type Created struct {
	Index int
	Kind  Kind
	Name  string
	UID   types.UID
}

// Multiplexer creates the documents of a rendered manifest in a single namespace.
type Multiplexer struct {
	clientset kubernetes.Interface
	namespace string
}

// NewMultiplexer returns a Multiplexer creating objects in namespace,
// or in the default namespace when namespace is empty.
func NewMultiplexer(clientset kubernetes.Interface, namespace string) *Multiplexer {
	if namespace == "" {
		namespace = defaults.Namespace
	}
	return &Multiplexer{clientset: clientset, namespace: namespace}
}

// Apply creates every document of rendered, in order.
//
// The first failure stops processing: an unsupported kind yields a
// *KindError, and a cluster error is returned wrapped with the document's
// kind and name. Objects created before the failure are left in place.
func (m *Multiplexer) Apply(ctx context.Context, rendered string) ([]Created, error) {
	var created []Created
	err := eachResource(rendered, func(r Resource) error {
		c, err := m.create(ctx, r)
		if err != nil {
			return fmt.Errorf("create %s %q (document %d): %w", r.Kind, r.Name(), r.Index, err)
		}
		resourcesCreated.WithLabelValues(r.Kind.String()).Inc()
		slog.Info("resource created",
			"kind", c.Kind.String(),
			"name", c.Name,
			"namespace", m.namespace,
			"uid", string(c.UID))
		created = append(created, c)
		return nil
	})
	return created, err
}

func (m *Multiplexer) create(ctx context.Context, r Resource) (Created, error) {
	if obj, ok := r.Object.(metav1.Object); ok {
		obj.SetNamespace(m.namespace)
	}

	opts := metav1.CreateOptions{}

	var (
		meta metav1.Object
		err  error
	)
	switch r.Kind {
	case KindDeployment:
		meta, err = m.clientset.AppsV1().Deployments(m.namespace).Create(ctx, r.Object.(*appsv1.Deployment), opts)
	case KindService:
		meta, err = m.clientset.CoreV1().Services(m.namespace).Create(ctx, r.Object.(*corev1.Service), opts)
	case KindPod:
		meta, err = m.clientset.CoreV1().Pods(m.namespace).Create(ctx, r.Object.(*corev1.Pod), opts)
	case KindPersistentVolumeClaim:
		meta, err = m.clientset.CoreV1().PersistentVolumeClaims(m.namespace).Create(ctx, r.Object.(*corev1.PersistentVolumeClaim), opts)
	case KindJob:
		meta, err = m.clientset.BatchV1().Jobs(m.namespace).Create(ctx, r.Object.(*batchv1.Job), opts)
	case KindSecret:
		meta, err = m.clientset.CoreV1().Secrets(m.namespace).Create(ctx, r.Object.(*corev1.Secret), opts)
	case KindConfigMap:
		meta, err = m.clientset.CoreV1().ConfigMaps(m.namespace).Create(ctx, r.Object.(*corev1.ConfigMap), opts)
	case KindUnknown:
		return Created{}, &KindError{Index: r.Index, Kind: r.GVK.Kind}
	default:
		return Created{}, &KindError{Index: r.Index, Kind: r.Kind.String()}
	}
	if err != nil {
		return Created{}, err
	}
	return Created{Index: r.Index, Kind: r.Kind, Name: meta.GetName(), UID: meta.GetUID()}, nil
}
