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

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/NVIDIA/tsunami-testbed/pkg/api"
	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
)

func main() {
	opts, err := optionsFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if err := api.Serve(context.Background(), opts); err != nil {
		log.Fatal(err)
	}
}

func optionsFromEnv() (api.Options, error) {
	opts := api.Options{
		Port:           defaults.ServerPort,
		Namespace:      os.Getenv("TESTBED_NAMESPACE"),
		DeployerImage:  os.Getenv("DEPLOYER_IMAGE"),
		APIKey:         os.Getenv("API_KEY"),
		AuthToken:      os.Getenv("AUTH_TOKEN"),
		ReadyTimeout:   defaults.K8sServiceReadyTimeout,
		LogLevel:       os.Getenv("LOG_LEVEL"),
		JobTemplateDir: os.Getenv("DEPLOYER_JOB_DIR"),
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 || p > 65535 {
			return api.Options{}, fmt.Errorf("invalid PORT %q: must be 0-65535", v)
		}
		opts.Port = p
	}
	return opts, nil
}
