package xacl_test

import (
	"fmt"

	"github.com/omeyang/xcidr/pkg/xacl"
	"github.com/omeyang/xcidr/pkg/xblock"
)

func ExampleNew() {
	acl, err := xacl.New(xacl.Policy{
		Default: "deny",
		Allow:   []string{"10.0.0.0/8", "192.168.0.0/16"},
		Deny:    []string{"10.1.2.0/24"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(acl.Allowed(xblock.MustParseAddress("192.168.10.1")))
	fmt.Println(acl.Allowed(xblock.MustParseAddress("10.1.2.3")))
	fmt.Println(acl.Allowed(xblock.MustParseAddress("8.8.8.8")))
	// Output:
	// true
	// false
	// false
}

func ExampleParse() {
	data := []byte(`{
	  "acl": {
	    "default": "allow",
	    "deny": ["203.0.113.0/24"]
	  }
	}`)

	acl, err := xacl.Parse(data, xacl.FormatJSON)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	allowed, _ := acl.AllowedString("203.0.113.7")
	fmt.Println(allowed)
	// Output:
	// false
}
