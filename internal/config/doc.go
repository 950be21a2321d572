// Package config provides configuration parsing for freedux tools.
//
// The configuration is stored in freedux.json in the working directory.
// Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "name": "todos",
//	  "inspector": {
//	    "addr": "localhost:7070",
//	    "maxRate": 10
//	  },
//	  "metrics": {
//	    "namespace": "freedux"
//	  },
//	  "log": {
//	    "level": "info"
//	  },
//	  "s3": {
//	    "region": "eu-west-1",
//	    "endpoint": "http://localhost:9000"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.Inspector.Addr)
package config
