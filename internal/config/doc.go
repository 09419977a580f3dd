// Package config loads the pagefx project configuration.
//
// Configuration lives in pagefx.json or pagefx.yaml at the project root.
// Missing fields take defaults, and a few deployment values can be
// overridden from the environment (PAGEFX_HOST, PAGEFX_PORT,
// PAGEFX_ANNOUNCE_TOKEN, PAGEFX_REDIS_ADDR, PAGEFX_BUCKET).
//
// # File Structure
//
//	{
//	  "site": {"title": "Acme", "brand": "Acme"},
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "staticDir": "static",
//	    "allowedOrigins": ["https://acme.example"],
//	    "announceToken": "s3cret"
//	  },
//	  "pref": {"backend": "redis", "redisAddr": "localhost:6379", "ttl": "720h"},
//	  "behavior": {"navbarThreshold": 80},
//	  "publish": {"bucket": "acme-site", "region": "us-east-1"}
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    return err
//	}
//	fmt.Println("listening on", cfg.Address())
package config
