package identity

import (
	"log"
	"medrecords-service/internal/app/config"

	"github.com/supertokens/supertokens-golang/recipe/emailpassword"
	"github.com/supertokens/supertokens-golang/supertokens"
)

// InitSupertokens initializes the SDK singleton with the emailpassword recipe.
// Must run once before any identity call.
func InitSupertokens(driverConfig *config.DriverConfig) error {
	err := supertokens.Init(supertokens.TypeInput{
		Supertokens: &supertokens.ConnectionInfo{
			ConnectionURI: driverConfig.Supertoken.ConnectionURI,
			APIKey:        driverConfig.Supertoken.APIKey,
		},
		AppInfo: supertokens.AppInfo{
			AppName:       driverConfig.Supertoken.AppName,
			APIDomain:     driverConfig.Supertoken.APIDomain,
			WebsiteDomain: driverConfig.Supertoken.WebsiteDomain,
		},
		RecipeList: []supertokens.Recipe{
			emailpassword.Init(nil),
		},
	})
	if err != nil {
		return err
	}
	log.Println("Successfully initialized supertokens SDK")
	return nil
}
