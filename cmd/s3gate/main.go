// s3gate is a small CLI over the client/bucket packages: manage named
// service profiles and list objects by a combined service/bucket/key
// path, the way the reference implementation's own CLI does.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ethanadams/s3gate/bucket"
	"github.com/ethanadams/s3gate/client"
	"github.com/ethanadams/s3gate/credentials"
	"github.com/ethanadams/s3gate/internal/config"
	"github.com/ethanadams/s3gate/internal/logging"
	"github.com/ethanadams/s3gate/region"
	"github.com/ethanadams/s3gate/s3xml"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	home, err := config.HomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	configPath := filepath.Join(home, "config.yaml")

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Init(cfg.Logging)

	switch os.Args[1] {
	case "service":
		runService(cfg, configPath, os.Args[2:])
	case "list":
		runList(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: s3gate <service|list> ...")
	fmt.Fprintln(os.Stderr, "  s3gate service list")
	fmt.Fprintln(os.Stderr, "  s3gate service add --name NAME --region REGION --access-key KEY --secret-key SECRET [--endpoint URL]")
	fmt.Fprintln(os.Stderr, "  s3gate service use NAME")
	fmt.Fprintln(os.Stderr, "  s3gate list PATH [--service NAME] [--bucket NAME] [--delimiter /]")
}

func runService(cfg *config.Config, configPath string, args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	switch args[0] {
	case "list":
		for _, s := range cfg.Services {
			marker := "  "
			if s.Name == cfg.ActiveService {
				marker = "* "
			}
			fmt.Printf("%s%s\t%s\t%s\n", marker, s.Name, s.Region, s.Endpoint)
		}
	case "add":
		fs := flag.NewFlagSet("service add", flag.ExitOnError)
		name := fs.String("name", "", "service name")
		regionName := fs.String("region", "us-east-1", "AWS region")
		accessType := fs.String("access-type", "path", "path or virtual-hosted")
		endpoint := fs.String("endpoint", "", "custom endpoint (optional, for non-AWS S3)")
		accessKey := fs.String("access-key", "", "access key")
		secretKey := fs.String("secret-key", "", "secret key")
		fs.Parse(args[1:])

		if *name == "" || *accessKey == "" || *secretKey == "" {
			fmt.Fprintln(os.Stderr, "service add requires --name, --access-key, --secret-key")
			os.Exit(1)
		}
		svc := config.Service{
			Name:       *name,
			Region:     *regionName,
			AccessType: *accessType,
			Endpoint:   *endpoint,
			AccessKey:  *accessKey,
			SecretKey:  *secretKey,
		}
		if err := cfg.AddService(svc); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if cfg.ActiveService == "" {
			cfg.ActiveService = svc.Name
		}
		if err := config.Save(configPath, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "use":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "service use requires a service name")
			os.Exit(1)
		}
		if _, ok := cfg.FindService(args[1]); !ok {
			fmt.Fprintf(os.Stderr, "unknown service %q\n", args[1])
			os.Exit(1)
		}
		cfg.ActiveService = args[1]
		if err := config.Save(configPath, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func runList(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	serviceFlag := fs.String("service", "", "service name (overrides path-derived service)")
	bucketFlag := fs.String("bucket", "", "bucket name (overrides path-derived bucket)")
	delimiter := fs.String("delimiter", "/", "listing delimiter")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "list requires a path argument")
		os.Exit(1)
	}
	path := fs.Arg(0)

	serviceName, bucketName, prefix, err := ParsePath(path, *serviceFlag, *bucketFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if serviceName == "" {
		serviceName = cfg.ActiveService
	}

	svc, ok := cfg.FindService(serviceName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown service %q\n", serviceName)
		os.Exit(1)
	}

	reg, accessType, err := resolveRegion(svc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	provider := credentials.NewStatic(svc.AccessKey, svc.SecretKey)
	c := client.New(http.DefaultClient, provider, reg, accessType)
	bc := bucket.New(c, bucketName)

	ctx := context.Background()
	err = bc.ListAllObjects(ctx, prefix, *delimiter, 1000, func(page *s3xml.ListBucketResult) error {
		for _, cp := range page.CommonPrefixes {
			fmt.Printf("%s\n", cp.Prefix)
		}
		for _, obj := range page.Contents {
			fmt.Printf("%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveRegion(svc config.Service) (region.Region, region.AccessType, error) {
	accessType := region.PathStyle
	if svc.AccessType == "virtual-hosted" {
		accessType = region.VirtualHostedStyle
	}
	if svc.Endpoint != "" {
		reg, err := region.FromCustom(svc.Endpoint, svc.Region)
		return reg, accessType, err
	}
	reg, err := region.FromOfficial(svc.Region)
	return reg, accessType, err
}
