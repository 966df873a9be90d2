// Package provider runs external lip-sync commands as lipsync engines.
//
// Providers are described in a registry file (YAML or JSON):
//
//	providers:
//	  wav2lip:
//	    command: python3
//	    args: [inference.py, --checkpoint_path, "{model}", --face, "{frames}", --audio, "{audio}", --outfile, "{out}"]
//	    params:
//	      pads: "0 10 0 0"
//	      nosmooth: true
//	    frames: png
//	    no_face_exit_code: 2
//
// Argument templates may reference {audio}, {frames}, {out}, {model},
// {batch} and {mode}. Params are appended as --key=value in key order.
// Frames are exchanged either as a directory of PNG files or as a single
// msgpack frame pack.
//
// Importing this package registers the "exec" engine with package lipsync.
// It is configured through EngineConfig.Settings:
//
//   - providers: path of the registry file
//   - provider: name of the provider to run
//   - work_dir: parent directory for per-call scratch directories
package provider
