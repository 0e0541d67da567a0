package model

// DomainItem is one entry of the exam taxonomy.
// Item is the knowledge-area text used as the ranking query.
type DomainItem struct {
	Domain string `json:"domain" yaml:"domain" validate:"required"`
	Task   string `json:"task" yaml:"task" validate:"required"`
	Focus  string `json:"focus" yaml:"focus" validate:"required"`
	Item   string `json:"item" yaml:"item" validate:"required"`
}

// DomainList is the on-disk shape of the taxonomy file
type DomainList struct {
	Items []DomainItem `json:"domain_list" validate:"required,min=1,dive"`
}

// DefaultScenarios is the fixed list of business contexts questions are set in
var DefaultScenarios = []string{
	"A large corporation wants to move their on-premises compute to the cloud for increased scalability and security.",
	"A startup wants to host their new web application on AWS.",
	"A company has a critical application that needs to be up at all times",
	"A media company wants to store large amounts of data that will be used for their applications",
	"A financial services company wants to run a highly available and secure infrastructure to process financial transactions.",
	"A healthcare company wants to store and process sensitive patient information in the cloud.",
	"A company wants to run batch processing jobs on AWS, but wants to minimize costs when the jobs are not running.",
	"A company wants to build a mobile application that needs to access and store data in the cloud.",
	"A company wants to store log files from their applications for analysis and compliance purposes.",
	"A company wants to run a disaster recovery plan for their critical systems on AWS.",
	"A gaming company wants to use AWS to host and scale their multiplayer game servers.",
	"A retail company wants to leverage AWS to support their e-commerce platform during peak shopping seasons.",
	"A research institution wants to perform data analysis on a large dataset using AWS compute resources.",
	"A software development team wants to build and deploy a microservices-based application on AWS.",
	"A marketing company wants to use AWS to process and analyze large volumes of customer data for targeted advertising campaigns.",
	"An education organization wants to use AWS to deliver online learning courses to students globally.",
	"A transportation company wants to use AWS to process real-time data from connected vehicles to optimize their operations.",
	"A social media platform wants to use AWS to store and process user-generated content.",
	"A telecommunications company wants to use AWS to host and manage their network infrastructure.",
	"A manufacturing company wants to use AWS to optimize their supply chain and production processes.",
}
