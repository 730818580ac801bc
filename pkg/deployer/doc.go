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

// Package deployer runs inside the deployer Job.
//
// Run decodes the template data, opens the application bundle, renders
// every template of the application in order, and hands the joined
// manifest to the manifest multiplexer, which creates each object in the
// target namespace:
//
//	created, err := deployer.Run(ctx, clientset, deployer.Options{
//		App:          "jupyter",
//		TemplateData: "{'jupyter_version':'latest'}",
//		Namespace:    "default",
//	})
//
// Render performs the same resolution without touching the cluster and
// backs the render command.
//
// Errors keep their type: an invalid parameter string is a
// *params.DecodeError (INVALID_ARGUMENT), a missing placeholder value a
// *render.ResolutionError, and an unsupported kind a *manifest.KindError.
package deployer
