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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/k8s/agent"
	"github.com/NVIDIA/tsunami-testbed/pkg/params"
)

// Orchestrator deploys applications through deployer jobs, one at a time.
type Orchestrator struct {
	clientset kubernetes.Interface
	deployer  *agent.Deployer
	config    Config

	queue   chan *pending
	done    chan struct{}
	started atomic.Bool
}

type pending struct {
	ctx   context.Context
	req   ApplicationRequest
	reply chan outcome

	// released is set by whichever of the worker or the caller gives up
	// the queue slot first.
	released atomic.Bool
}

// release removes p from the queue depth exactly once.
func (p *pending) release() {
	if p.released.CompareAndSwap(false, true) {
		queueDepth.Dec()
	}
}

type outcome struct {
	result *DeploymentResult
	err    error
}

// NewOrchestrator creates an Orchestrator. Call Run to start processing
// create requests.
func NewOrchestrator(clientset kubernetes.Interface, config Config) *Orchestrator {
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.K8sServicePollInterval
	}
	if config.ReadyTimeout < 0 {
		config.ReadyTimeout = 0
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.ServerQueueSize
	}
	config.Deployer.Namespace = config.Namespace

	return &Orchestrator{
		clientset: clientset,
		deployer:  agent.NewDeployer(clientset, config.Deployer),
		config:    config,
		queue:     make(chan *pending, config.QueueSize),
		done:      make(chan struct{}),
	}
}

// Namespace returns the namespace the orchestrator deploys into.
func (o *Orchestrator) Namespace() string {
	return o.config.Namespace
}

// Prepare makes sure the RBAC used by deployer jobs exists.
func (o *Orchestrator) Prepare(ctx context.Context) ([]agent.PermissionCheck, error) {
	return o.deployer.Prepare(ctx)
}

// Run processes create requests in arrival order until ctx is done.
// Requests still queued when it returns fail as unavailable.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.started.CompareAndSwap(false, true) {
		return errors.New("orchestrator is already running")
	}
	defer close(o.done)

	slog.Debug("orchestrator started", "namespace", o.config.Namespace)

	for {
		select {
		case <-ctx.Done():
			o.drain()
			slog.Debug("orchestrator stopped", "namespace", o.config.Namespace)
			return nil
		case p := <-o.queue:
			p.release()
			o.handle(ctx, p)
		}
	}
}

func (o *Orchestrator) drain() {
	for {
		select {
		case p := <-o.queue:
			p.release()
			p.reply <- outcome{err: errShuttingDown()}
		default:
			return
		}
	}
}

func (o *Orchestrator) handle(runCtx context.Context, p *pending) {
	if runCtx.Err() != nil {
		p.reply <- outcome{err: errShuttingDown()}
		return
	}
	if err := p.ctx.Err(); err != nil {
		deploymentsTotal.WithLabelValues(outcomeDropped).Inc()
		slog.Info("dropping deployment request, caller gave up",
			"application", p.req.Application,
			"error", err)
		p.reply <- outcome{err: contextError(err)}
		return
	}

	// The deployment stops when either the caller or the orchestrator does.
	ctx, cancel := context.WithCancel(p.ctx)
	stop := context.AfterFunc(runCtx, cancel)
	defer func() {
		stop()
		cancel()
	}()

	result, err := o.deploy(ctx, p.req)
	p.reply <- outcome{result: result, err: err}
}

// CreateDeployment submits a deployer job for the application and waits
// until its Service is observable. Concurrent calls are processed one at a
// time in arrival order.
func (o *Orchestrator) CreateDeployment(ctx context.Context, req ApplicationRequest) (*DeploymentResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	p := &pending{ctx: ctx, req: req, reply: make(chan outcome, 1)}

	select {
	case o.queue <- p:
		queueDepth.Inc()
	case <-ctx.Done():
		return nil, contextError(ctx.Err())
	case <-o.done:
		return nil, errShuttingDown()
	}

	select {
	case out := <-p.reply:
		return out.result, out.err
	case <-ctx.Done():
		p.release()
		return nil, contextError(ctx.Err())
	case <-o.done:
		select {
		case out := <-p.reply:
			return out.result, out.err
		default:
			// Enqueued after the worker drained the queue.
			p.release()
			return nil, errShuttingDown()
		}
	}
}

func validate(req ApplicationRequest) error {
	if req.Application == "" {
		return apperrors.New(apperrors.ErrCodeInvalidArgument, "application name is required")
	}
	if _, err := params.Decode(req.TemplateData); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidArgument, "invalid template data", err)
	}
	return nil
}

func (o *Orchestrator) deploy(ctx context.Context, req ApplicationRequest) (*DeploymentResult, error) {
	start := time.Now()
	result := &DeploymentResult{JobID: Unknown, Phase: PhaseSubmitting}
	logger := slog.With("application", req.Application, "namespace", o.config.Namespace)

	fail := func(err error) (*DeploymentResult, error) {
		result.Phase = PhaseFailed
		deploymentsTotal.WithLabelValues(outcomeFailed).Inc()
		deploymentDuration.WithLabelValues(outcomeFailed).Observe(time.Since(start).Seconds())
		logger.Error("deployment failed",
			"job", result.JobName,
			"error", err)
		return nil, err
	}

	job, err := o.deployer.Submit(ctx, agent.Request{
		Application:     req.Application,
		TemplateData:    req.TemplateData,
		ConfigPath:      req.ConfigPath,
		DeployerJobPath: req.DeployerJobPath,
	})
	if err != nil {
		return fail(err)
	}
	result.JobName = job.Name
	result.Phase = PhaseWaitingForService
	logger.Info("deployer job submitted", "job", job.Name)

	svc, err := o.waitForService(ctx, req.Application, job.Name)
	if err != nil {
		return fail(err)
	}

	result.Phase = PhaseReady
	outcomeLabel := outcomeUnidentified
	if svc.UID != "" {
		result.JobID = string(svc.UID)
		result.Identified = true
		outcomeLabel = outcomeReady
	}
	deploymentsTotal.WithLabelValues(outcomeLabel).Inc()
	deploymentDuration.WithLabelValues(outcomeLabel).Observe(time.Since(start).Seconds())

	logger.Info("application ready",
		"job", job.Name,
		"job_id", result.JobID,
		"identified", result.Identified,
		"duration", time.Since(start).String())
	return result, nil
}

// waitForService polls the Service listing until one named app appears.
// A failed deployer job ends the wait early.
func (o *Orchestrator) waitForService(ctx context.Context, app, jobName string) (*corev1.Service, error) {
	var found *corev1.Service
	jobDone := false

	condition := func(ctx context.Context) (bool, error) {
		servicePolls.Inc()
		services, err := o.clientset.CoreV1().Services(o.config.Namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, apperrors.Wrap(apperrors.ErrCodeInternal,
				fmt.Sprintf("failed to list services for %s", app), err)
		}
		for i := range services.Items {
			if services.Items[i].Name == app {
				found = &services.Items[i]
				return true, nil
			}
		}

		// A completed job had its chance to create the Service on the
		// previous listing.
		if jobDone {
			return false, apperrors.NewWithContext(apperrors.ErrCodeInternal,
				fmt.Sprintf("deployer job %s completed without creating service %s", jobName, app),
				map[string]any{"job": jobName})
		}

		state, err := o.deployer.JobState(ctx, jobName)
		if err != nil {
			slog.Debug("job state unavailable", "job", jobName, "error", err)
			return false, nil
		}
		if state.Failed {
			return false, o.jobFailure(ctx, jobName, state)
		}
		jobDone = state.Complete
		return false, nil
	}

	var err error
	if o.config.ReadyTimeout > 0 {
		err = wait.PollUntilContextTimeout(ctx, o.config.PollInterval, o.config.ReadyTimeout, true, condition)
	} else {
		err = wait.PollUntilContextCancel(ctx, o.config.PollInterval, true, condition)
	}
	if err == nil {
		return found, nil
	}

	if wait.Interrupted(err) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, apperrors.NewWithContext(apperrors.ErrCodeTimeout,
			fmt.Sprintf("service %s not observed within %s", app, o.config.ReadyTimeout),
			map[string]any{"job": jobName})
	}
	return nil, err
}

func (o *Orchestrator) jobFailure(ctx context.Context, jobName string, state agent.JobState) error {
	details := map[string]any{
		"job":    jobName,
		"reason": state.Message,
	}
	logs, err := o.deployer.JobLogs(ctx, jobName)
	if err != nil {
		slog.Warn("failed to read deployer job logs", "job", jobName, "error", err)
	} else {
		details["logs"] = logs
	}
	return apperrors.NewWithContext(apperrors.ErrCodeInternal,
		fmt.Sprintf("deployer job %s failed", jobName), details)
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, "deployment request timed out", err)
	}
	return apperrors.Wrap(apperrors.ErrCodeUnavailable, "deployment request cancelled", err)
}

func errShuttingDown() error {
	return apperrors.New(apperrors.ErrCodeUnavailable, "orchestrator is shutting down")
}
