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

// Package logging configures log/slog for the testbed binaries.
//
// Every logger writes JSON to stderr and stamps each record with module and
// version attributes. Debug loggers also record the source location.
//
// Levels are parsed case-insensitively from debug, info, warn (or warning)
// and error. Anything else selects info. The LOG_LEVEL environment variable
// sets the level when none is passed explicitly:
//
//	LOG_LEVEL=debug testbed deploy --app_name jupyter
//
// Install the default logger once, early:
//
//	logging.SetDefaultStructuredLoggerWithLevel("testbed", version, level)
//	slog.Info("deployment submitted", "application", app, "job", jobName)
//
// A record looks like:
//
//	{"time":"2025-01-15T10:30:00Z","level":"INFO","msg":"deployment ready",
//	 "module":"testbed","version":"v1.0.0","application":"jupyter","elapsed":"4.2s"}
//
// NewLogLogger adapts the default handler for APIs that take a *log.Logger,
// such as http.Server.ErrorLog.
package logging
