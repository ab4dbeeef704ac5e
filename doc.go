// Package mcenv manages Minecraft server instances end to end: discovering
// versions from the Mojang version manifest, downloading server jars with
// checksum verification, provisioning matching Java runtimes from the
// Adoptium API, and supervising launched server processes.
//
// A Manager owns a root directory that holds everything mcenv persists:
// the instance registry, one directory per installed instance and a shared
// cache of Java runtimes. Several managers (and several processes) may
// share one root; registry mutations are serialized through a file lock.
//
// # Basic Usage
//
//	mgr := mcenv.NewManager(
//		mcenv.WithRootDir("/srv/minecraft"),
//	)
//
//	inst, err := mgr.Install(ctx, "survival", mcenv.Selector{Channel: mcenv.ChannelRelease}, mcenv.InstallOptions{})
//	if err != nil {
//		return err
//	}
//
//	srv, err := mgr.Launch(ctx, inst.ID, mcenv.LaunchOptions{Stdin: os.Stdin})
//	if err != nil {
//		return err
//	}
//	for line := range srv.Lines() {
//		fmt.Println(line)
//	}
//	res, err := srv.Wait(ctx)
//	if err != nil {
//		return err
//	}
//	if res.Crash != nil {
//		url, _ := mgr.UploadCrashReport(ctx, res.Crash.Path)
//		fmt.Println("crash report:", url)
//	}
//
// NewManager performs no I/O; the root directory is created lazily by the
// operations that need it. Every blocking operation takes a context and
// honors its cancellation.
//
// Launch settings live in a per-instance TOML file that users may edit
// between runs; Launch reads it fresh every time. Install writes a default
// file and accepts the EULA on the caller's behalf.
package mcenv
